package params

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	type args struct {
		Username string `json:"username"`
		Page
	}

	tests := []struct {
		name    string
		raw     string
		want    args
		wantErr bool
	}{
		{"empty", ``, args{}, false},
		{"null", `null`, args{}, false},
		{"object", `{"username":"leo","page":3}`, args{Username: "leo", Page: Page{Page: json.RawMessage("3")}}, false},
		{"positional", `["leo"]`, args{}, true},
		{"unknown field", `{"user":"leo"}`, args{}, true},
		{"wrong type", `{"username":5}`, args{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got args
			err := Bind(json.RawMessage(tt.raw), &got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(map[string]string{"username": "leo"}))
	assert.ErrorIs(t, Require(map[string]string{"username": ""}), ErrInvalid)
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		raw      string
		expected int
	}{
		{``, 1},
		{`null`, 1},
		{`5`, 5},
		{`-4`, 1},
		{`0`, 1},
		{`"2"`, 2},
		{`" 3 "`, 3},
		{`"abc"`, 1},
		{`1.5`, 1},
		{`true`, 1},
		{`{}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, Page{Page: json.RawMessage(tt.raw)}.Number())
		})
	}
}

func TestBind_PageFallback(t *testing.T) {
	for _, raw := range []string{`{"page":"abc"}`, `{"page":1.5}`, `{"page":[1]}`} {
		var p Page
		require.NoError(t, Bind(json.RawMessage(raw), &p), raw)
		assert.Equal(t, 1, p.Number(), raw)
	}

	var p Page
	require.NoError(t, Bind(json.RawMessage(`{"page":"2"}`), &p))
	assert.Equal(t, 2, p.Number())
}
