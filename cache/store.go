package cache

import (
	"context"
	"net/http"
	"strings"
)

// SkipRule reports whether responses to method should not be remembered.
type SkipRule func(method string) bool

// UnsafeMethods are the HTTP methods whose responses are never remembered
// under the default skip rule.
var UnsafeMethods = []string{
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// DefaultSkipRule skips unsafe methods. Matching is case-insensitive.
func DefaultSkipRule(method string) bool {
	for _, unsafe := range UnsafeMethods {
		if strings.EqualFold(method, unsafe) {
			return true
		}
	}
	return false
}

// Store remembers the last good response per request and recalls it as
// fallback data.
type Store struct {
	cache    Cache
	keyer    Keyer
	policy   Policy
	skipRule SkipRule
}

// NewStore creates a Store. A nil keyer uses HashKey and a nil skipRule
// uses DefaultSkipRule.
func NewStore(cache Cache, keyer Keyer, policy Policy, skipRule SkipRule) (*Store, error) {
	if cache == nil {
		return nil, ErrNilCache
	}
	if keyer == nil {
		keyer = KeyFunc(HashKey)
	}
	if skipRule == nil {
		skipRule = DefaultSkipRule
	}
	return &Store{
		cache:    cache,
		keyer:    keyer,
		policy:   policy,
		skipRule: skipRule,
	}, nil
}

func (s *Store) key(method, endpoint string, params any) (string, bool) {
	if !s.policy.Enabled() {
		return "", false
	}
	if !s.policy.AllowUnsafe && s.skipRule(method) {
		return "", false
	}
	key, err := s.keyer.Key(strings.ToUpper(method)+" "+endpoint, params)
	if err != nil {
		return "", false
	}
	return key, true
}

// Remember stores body as the last good response. Requests the policy does
// not cache are ignored.
func (s *Store) Remember(ctx context.Context, method, endpoint string, params any, body []byte) error {
	key, ok := s.key(method, endpoint, params)
	if !ok {
		return nil
	}
	return s.cache.Set(ctx, key, body, s.policy.Clamp(s.policy.TTL))
}

// Recall returns the last good response, if one is still held.
func (s *Store) Recall(ctx context.Context, method, endpoint string, params any) ([]byte, bool) {
	key, ok := s.key(method, endpoint, params)
	if !ok {
		return nil, false
	}
	return s.cache.Get(ctx, key)
}

// Forget drops the remembered response.
func (s *Store) Forget(ctx context.Context, method, endpoint string, params any) error {
	key, ok := s.key(method, endpoint, params)
	if !ok {
		return nil
	}
	return s.cache.Delete(ctx, key)
}
