package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced user, post or group does not exist
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when an operation needs an authenticated caller
	ErrUnauthorized = errors.New("authentication required")
	// ErrForbidden is returned when the caller may not act on the target
	ErrForbidden = errors.New("permission denied")
	// ErrConflict is returned when a write would break a uniqueness or
	// immutability rule
	ErrConflict = errors.New("conflict")
)

// ValidationError lists per-field input problems
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func notFound(kind, key string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, key)
}
