package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// JSONRPCRequest represents a JSON-RPC 2.0 request
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response
type JSONRPCResponse struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id"`
	Result  interface{}   `json:"result,omitempty"`
	Error   *JSONRPCError `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error
type JSONRPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MethodHandler is a function that handles a JSON-RPC method
type MethodHandler func(ctx *gin.Context, params json.RawMessage) (interface{}, error)

type method struct {
	handler MethodHandler
	limited bool
}

// JSONRPCHandler handles JSON-RPC requests
type JSONRPCHandler struct {
	methods map[string]method
	limiter *IPLimiter
	logger  *zap.Logger
}

// NewJSONRPCHandler creates a new JSON-RPC handler. limiter may be nil.
func NewJSONRPCHandler(limiter *IPLimiter) *JSONRPCHandler {
	return &JSONRPCHandler{
		methods: make(map[string]method),
		limiter: limiter,
		logger:  logging.WithComponent("jsonrpc"),
	}
}

// RegisterMethod registers a method handler
func (h *JSONRPCHandler) RegisterMethod(name string, handler MethodHandler) {
	h.methods[name] = method{handler: handler}
}

// RegisterLimitedMethod registers a method handler subject to the per-client
// rate limit
func (h *JSONRPCHandler) RegisterLimitedMethod(name string, handler MethodHandler) {
	h.methods[name] = method{handler: handler, limited: true}
}

// Methods returns the registered method names
func (h *JSONRPCHandler) Methods() []string {
	names := make([]string, 0, len(h.methods))
	for name := range h.methods {
		names = append(names, name)
	}
	return names
}

// Handle handles a JSON-RPC request
func (h *JSONRPCHandler) Handle(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "jsonrpc.handle")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req JSONRPCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, nil, &JSONRPCError{Code: ErrParseError, Message: "Parse error", Data: err.Error()})
		return
	}

	// Validate JSON-RPC version
	if req.JSONRPC != "2.0" {
		h.sendError(c, req.ID, &JSONRPCError{Code: ErrInvalidRequest, Message: "Invalid Request", Data: "invalid jsonrpc version"})
		return
	}

	span.SetAttributes(attribute.String("rpc.method", req.Method))

	// Find method handler
	m, ok := h.methods[req.Method]
	if !ok {
		h.sendError(c, req.ID, &JSONRPCError{
			Code:    ErrMethodNotFound,
			Message: "Method not found",
			Data:    fmt.Sprintf("method %s not found", req.Method),
		})
		return
	}

	if m.limited && !h.limiter.Allow(c.ClientIP()) {
		h.sendError(c, req.ID, &JSONRPCError{Code: ErrRateLimited, Message: "Too many requests"})
		return
	}

	// Call handler
	result, err := m.handler(c, req.Params)
	if err != nil {
		rpcErr, expected := classify(err)
		if expected {
			h.logger.Debug("JSON-RPC request rejected",
				zap.String("method", req.Method),
				zap.Int("code", rpcErr.Code),
				zap.Error(err))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			h.logger.Error("JSON-RPC method failed", zap.String("method", req.Method), zap.Error(err))
			if hub := sentry.GetHubFromContext(ctx); hub != nil {
				hub.CaptureException(err)
			} else {
				sentry.CaptureException(err)
			}
		}
		h.sendError(c, req.ID, rpcErr)
		return
	}

	// Send response
	h.sendResponse(c, req.ID, result)
}

// sendResponse sends a successful JSON-RPC response
func (h *JSONRPCHandler) sendResponse(c *gin.Context, id interface{}, result interface{}) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}
	c.JSON(http.StatusOK, resp)
}

// sendError sends an error JSON-RPC response
func (h *JSONRPCHandler) sendError(c *gin.Context, id interface{}, rpcErr *JSONRPCError) {
	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   rpcErr,
	}
	c.JSON(http.StatusOK, resp)
}

// Standard JSON-RPC error codes
const (
	ErrParseError     = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternalError  = -32603
)
