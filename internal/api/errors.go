package api

import (
	"errors"
	"fmt"

	"github.com/yatube/yatube/internal/api/params"
	"github.com/yatube/yatube/internal/service"
)

// Application error codes, outside the range reserved by JSON-RPC
const (
	ErrServerError  = -32000
	ErrUnauthorized = -32001
	ErrNotFound     = -32002
	ErrValidation   = -32003
	ErrForbidden    = -32004
	ErrConflict     = -32005
	ErrRateLimited  = -32029
)

// Error represents an API error
type Error struct {
	Code    int
	Message string
	Data    interface{}
}

// NewError creates a new API error
func NewError(code int, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Code, e.Message)
}

// classify maps a handler error to its JSON-RPC error. expected is false for
// errors no client input can explain.
func classify(err error) (rpcErr *JSONRPCError, expected bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return &JSONRPCError{Code: apiErr.Code, Message: apiErr.Message, Data: apiErr.Data}, true
	}

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return &JSONRPCError{Code: ErrValidation, Message: "Validation failed", Data: verr.Fields}, true
	}

	switch {
	case errors.Is(err, params.ErrInvalid):
		return &JSONRPCError{Code: ErrInvalidParams, Message: "Invalid params", Data: err.Error()}, true
	case errors.Is(err, service.ErrUnauthorized):
		return &JSONRPCError{Code: ErrUnauthorized, Message: "Unauthorized", Data: err.Error()}, true
	case errors.Is(err, service.ErrNotFound):
		return &JSONRPCError{Code: ErrNotFound, Message: "Not found", Data: err.Error()}, true
	case errors.Is(err, service.ErrForbidden):
		return &JSONRPCError{Code: ErrForbidden, Message: "Forbidden", Data: err.Error()}, true
	case errors.Is(err, service.ErrConflict):
		return &JSONRPCError{Code: ErrConflict, Message: "Conflict", Data: err.Error()}, true
	}
	return &JSONRPCError{Code: ErrServerError, Message: "Server error"}, false
}
