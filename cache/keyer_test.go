package cache

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func mustKey(t *testing.T, endpoint string, params any) string {
	t.Helper()
	key, err := HashKey(endpoint, params)
	if err != nil {
		t.Fatalf("HashKey(%q, %v) error = %v", endpoint, params, err)
	}
	return key
}

func TestHashKey_Format(t *testing.T) {
	key := mustKey(t, "GET /profile", nil)

	parts := strings.Split(key, ":")
	if len(parts) != 3 || parts[0] != KeyPrefix || parts[1] != "GET /profile" {
		t.Fatalf("HashKey() = %q, want lkg:GET /profile:<hash>", key)
	}
	if len(parts[2]) != 16 {
		t.Errorf("hash length = %d, want 16", len(parts[2]))
	}
}

func TestHashKey_Equivalent(t *testing.T) {
	tests := []struct {
		name string
		a, b any
	}{
		{
			"nested map order",
			map[string]any{"b": 2, "a": 1, "c": map[string]any{"y": 1, "x": 2}},
			map[string]any{"c": map[string]any{"x": 2, "y": 1}, "a": 1, "b": 2},
		},
		{
			"string map and any map",
			map[string]string{"page": "2", "q": "x"},
			map[string]any{"q": "x", "page": "2"},
		},
		{
			"raw JSON key order and whitespace",
			[]byte(`{"b": 1, "a": {"y": 2, "x": 1}}`),
			json.RawMessage(`{"a":{"x":1,"y":2},"b":1}`),
		},
		{
			"raw JSON and map",
			[]byte(`{ "q" : "x", "page" : 2 }`),
			map[string]any{"page": 2, "q": "x"},
		},
		{"nil and empty body", nil, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustKey(t, "GET /items", tt.a)
			b := mustKey(t, "GET /items", tt.b)
			if a != b {
				t.Errorf("keys differ:\n  a=%s\n  b=%s", a, b)
			}
		})
	}
}

func TestHashKey_Differentiates(t *testing.T) {
	tests := []struct {
		name      string
		endpointA string
		paramsA   any
		endpointB string
		paramsB   any
	}{
		{"array order", "GET /a", []any{1, 2, 3}, "GET /a", []any{3, 2, 1}},
		{"endpoint", "GET /a", nil, "GET /b", nil},
		{"params", "GET /a", map[string]any{"id": 1}, "GET /a", map[string]any{"id": 2}},
		{"string inside raw JSON", "POST /a", []byte(`{"s":"a b"}`), "POST /a", []byte(`{"s":"ab"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if a, b := mustKey(t, tt.endpointA, tt.paramsA), mustKey(t, tt.endpointB, tt.paramsB); a == b {
				t.Errorf("keys should differ: %s", a)
			}
		})
	}
}

func TestHashKey_Errors(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		params   any
		wantErr  error
	}{
		{"empty endpoint", "", nil, ErrBadKey},
		{"blank endpoint", "   ", nil, ErrBadKey},
		{"newline", "GET /x\n", nil, ErrBadKey},
		{"carriage return", "GET /x\r", nil, ErrBadKey},
		{"too long", strings.Repeat("x", MaxKeyLength), nil, ErrKeyTooLong},
		{"raw bytes not JSON", "POST /x", []byte("not json"), ErrBadParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := HashKey(tt.endpoint, tt.params); !errors.Is(err, tt.wantErr) {
				t.Errorf("HashKey() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := HashKey("GET /x", map[string]any{"fn": func() {}}); err == nil {
		t.Error("HashKey() with unencodable params should error")
	}
}

func TestKeyFunc(t *testing.T) {
	var k Keyer = KeyFunc(func(endpoint string, _ any) (string, error) {
		return "custom:" + endpoint, nil
	})
	if got, _ := k.Key("GET /a", nil); got != "custom:GET /a" {
		t.Errorf("Key() = %q", got)
	}
}
