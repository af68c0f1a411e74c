package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

const (
	// KeyPrefix starts every key built by HashKey.
	KeyPrefix = "lkg"

	// MaxKeyLength bounds the length of a key.
	MaxKeyLength = 512

	hashDigits = 16
)

// Keyer derives a cache key from an endpoint and its request parameters.
// Equal parameters must give equal keys whatever their map order.
type Keyer interface {
	Key(endpoint string, params any) (string, error)
}

// KeyFunc adapts a function to Keyer.
type KeyFunc func(endpoint string, params any) (string, error)

// Key calls f.
func (f KeyFunc) Key(endpoint string, params any) (string, error) {
	return f(endpoint, params)
}

// HashKey builds "lkg:<endpoint>:<hash>", where hash is the first 16 hex
// digits of the SHA-256 of params as JSON with object keys sorted.
// Raw JSON params ([]byte or json.RawMessage) are hashed as documents.
func HashKey(endpoint string, params any) (string, error) {
	if strings.TrimSpace(endpoint) == "" || strings.ContainsAny(endpoint, "\r\n") {
		return "", ErrBadKey
	}

	doc, err := canonicalJSON(params)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(doc)

	key := KeyPrefix + ":" + endpoint + ":" + hex.EncodeToString(sum[:])[:hashDigits]
	if len(key) > MaxKeyLength {
		return "", ErrKeyTooLong
	}
	return key, nil
}

func canonicalJSON(params any) ([]byte, error) {
	var doc []byte
	switch p := params.(type) {
	case nil:
		return []byte("null"), nil
	case json.RawMessage:
		doc = p
	case []byte:
		doc = p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("cache: encode params: %w", err)
		}
		doc = b
	}

	if len(doc) == 0 {
		return []byte("null"), nil
	}
	if !gjson.ValidBytes(doc) {
		return nil, ErrBadParams
	}
	sorted := pretty.PrettyOptions(doc, &pretty.Options{Width: 80, Indent: "  ", SortKeys: true})
	return pretty.Ugly(sorted), nil
}

var _ Keyer = KeyFunc(HashKey)
