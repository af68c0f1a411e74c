package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonwraymond/netresilience/cache"
	"github.com/jonwraymond/netresilience/observe"
	"github.com/jonwraymond/netresilience/resilience"
	"github.com/jonwraymond/netresilience/transport"
)

// Client issues resilient requests through a transport.
type Client struct {
	transport *transport.Client
	store     *cache.Store
	exec      *resilience.Executor
	logger    observe.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithStore enables last-known-good fallback from store.
func WithStore(s *cache.Store) Option {
	return func(c *Client) {
		c.store = s
	}
}

// WithExecutor sets the executor that runs the retry loop.
func WithExecutor(e *resilience.Executor) Option {
	return func(c *Client) {
		if e != nil {
			c.exec = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l observe.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client. Without WithStore it never remembers responses.
func New(t *transport.Client, opts ...Option) *Client {
	c := &Client{
		transport: t,
		exec:      resilience.NewExecutor(),
		logger:    observe.NoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch sends method to path under policy. On success the body is
// remembered. When the retry loop falls back, the remembered body is
// returned if one exists and fallback otherwise.
func (c *Client) Fetch(ctx context.Context, method, path string, body, fallback []byte, policy resilience.Policy) (resilience.Outcome[[]byte], error) {
	ctx = withRequest(ctx, method, path)

	fb := fallback
	if c.store != nil {
		if cached, ok := c.store.Recall(ctx, method, path, params(body)); ok {
			fb = cached
		}
	}

	out, err := resilience.Execute(ctx, c.exec, c.transport.Operation(method, path, body), fb, policy)
	if err != nil || out.IsOffline {
		return out, err
	}

	if c.store != nil {
		if err := c.store.Remember(ctx, method, path, params(body), out.Data); err != nil {
			c.logger.Warn(ctx, "failed to remember response",
				observe.Field{Key: "endpoint", Value: path},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}
	return out, nil
}

// GetJSON fetches path and decodes the JSON body into T. When the retry
// loop falls back, a remembered body is decoded in its place; if none is
// remembered or it no longer decodes, fallback is returned.
func GetJSON[T any](ctx context.Context, c *Client, path string, fallback T, policy resilience.Policy) (resilience.Outcome[T], error) {
	out, err := c.Fetch(ctx, http.MethodGet, path, nil, nil, policy)
	if err != nil {
		return resilience.Outcome[T]{}, err
	}

	if out.IsOffline {
		result := resilience.Outcome[T]{Data: fallback, IsOffline: true, Error: out.Error}
		if out.Data != nil {
			var v T
			if json.Unmarshal(out.Data, &v) == nil {
				result.Data = v
			}
		}
		return result, nil
	}

	var v T
	if err := json.Unmarshal(out.Data, &v); err != nil {
		return resilience.Outcome[T]{}, fmt.Errorf("client: decode %s: %w", path, err)
	}
	return resilience.Outcome[T]{Data: v}, nil
}

// params keys remembered responses by request body.
func params(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	return json.RawMessage(body)
}

// withRequest fills in request metadata so every attempt of one call
// shares a correlation ID.
func withRequest(ctx context.Context, method, path string) context.Context {
	meta, _ := observe.RequestFromContext(ctx)
	if meta.Method == "" {
		meta.Method = method
	}
	if meta.Endpoint == "" {
		meta.Endpoint = path
	}
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	return observe.ContextWithRequest(ctx, meta)
}
