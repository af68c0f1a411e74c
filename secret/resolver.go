package secret

import (
	"context"
	"fmt"
	"regexp"
)

var inlineRefPattern = regexp.MustCompile(`secretref:([^:\s]+):(\S+)`)

// Resolver expands environment variables and then secret references.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver with the given providers. With none, the
// env and file providers are registered.
func NewResolver(providers ...Provider) *Resolver {
	if len(providers) == 0 {
		providers = []Provider{EnvProvider{}, FileProvider{}}
	}
	r := &Resolver{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Resolve expands environment variables and then secret references in
// value. A nil Resolver only expands the environment.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil || r == nil {
		return expanded, err
	}
	return r.ExpandRefs(ctx, expanded)
}

// ExpandRefs replaces secret references in value without touching
// environment syntax, for values that were expanded already.
func (r *Resolver) ExpandRefs(ctx context.Context, value string) (string, error) {
	var firstErr error
	out := inlineRefPattern.ReplaceAllStringFunc(value, func(m string) string {
		if firstErr != nil {
			return m
		}
		sub := inlineRefPattern.FindStringSubmatch(m)
		v, err := r.lookup(ctx, sub[1], sub[2])
		if err != nil {
			firstErr = err
			return m
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// ExpandRefsMap applies ExpandRefs to every value in input. Errors name the
// offending key.
func (r *Resolver) ExpandRefsMap(ctx context.Context, input map[string]string) (map[string]string, error) {
	if input == nil {
		return nil, nil
	}
	out := make(map[string]string, len(input))
	for k, v := range input {
		resolved, err := r.ExpandRefs(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", k, err)
		}
		out[k] = resolved
	}
	return out, nil
}

func (r *Resolver) lookup(ctx context.Context, provider, ref string) (string, error) {
	p, ok := r.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	v, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%w: %s:%s", ErrEmptySecret, provider, ref)
	}
	return v, nil
}
