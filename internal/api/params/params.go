// Package params decodes named JSON-RPC parameters.
package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yatube/yatube/internal/paginator"
)

// ErrInvalid marks a request whose params could not be decoded
var ErrInvalid = errors.New("invalid params")

// Bind decodes a params object into dst. Missing params decode as an empty
// object; unknown fields are rejected.
func Bind(raw json.RawMessage, dst interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] != '{' {
		return fmt.Errorf("%w: params must be an object", ErrInvalid)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Require returns ErrInvalid naming the first empty value
func Require(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%w: missing required parameter: %s", ErrInvalid, name)
		}
	}
	return nil
}

// Page is the common page-number parameter. It accepts a number or a
// numeric string; anything else, zero or negative means page 1.
type Page struct {
	Page json.RawMessage `json:"page"`
}

// Number returns the requested page number
func (p Page) Number() int {
	raw := bytes.TrimSpace(p.Page)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return paginator.ParseNumber(s)
	}
	return paginator.ParseNumber(string(raw))
}
