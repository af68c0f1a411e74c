package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jonwraymond/netresilience/classify"
	"github.com/jonwraymond/netresilience/observe"
)

const (
	// HeaderRequestID carries the correlation ID of each request.
	HeaderRequestID = "X-Request-ID"

	// MaxBodySize caps how much of a response body is read.
	MaxBodySize = 10 << 20
)

// Message prefixes for failures that never reached HTTP.
const (
	PrefixRefused = "ECONNREFUSED"
	PrefixTimeout = "timeout"
	PrefixNetwork = "network request failed"
)

// messagePaths are tried in order against a JSON error body.
var messagePaths = []string{"message", "error.message", "error", "detail"}

// Client sends requests relative to a base URL.
type Client struct {
	base   *url.URL
	http   *http.Client
	header http.Header
	logger observe.Logger
	newID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			hc := *cl.http
			hc.Timeout = d
			cl.http = &hc
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(cl *Client) {
		cl.header.Add(key, value)
	}
}

// WithLogger sets the logger.
func WithLogger(l observe.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithRequestIDFunc overrides how request IDs are generated.
func WithRequestIDFunc(fn func() string) Option {
	return func(cl *Client) {
		if fn != nil {
			cl.newID = fn
		}
	}
}

// New creates a Client for baseURL, which must be an absolute http or
// https URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}

	c := &Client{
		base:   u,
		http:   &http.Client{},
		header: make(http.Header),
		logger: observe.NoopLogger(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get is Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Operation returns a function performing the request, suitable for
// resilience.Execute.
func (c *Client) Operation(method, path string, body []byte) func(context.Context) ([]byte, error) {
	return func(ctx context.Context) ([]byte, error) {
		return c.Do(ctx, method, path, body)
	}
}

// Do sends a request to path relative to the base URL and returns the
// response body of a 2xx answer. A non-nil body is sent as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header = c.header.Clone()
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	id := c.requestID(ctx)
	req.Header.Set(HeaderRequestID, id)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		err = classifyTransportError(ctx, err)
		c.logger.Debug(ctx, "request failed before response",
			observe.Field{Key: "request_id", Value: id},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	if len(data) > MaxBodySize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, MaxBodySize)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f := classify.NewFailure(resp.StatusCode, errorMessage(data, resp.StatusCode))
		c.logger.Debug(ctx, "request answered with error status",
			observe.Field{Key: "request_id", Value: id},
			observe.Field{Key: "status", Value: resp.StatusCode},
		)
		return nil, f
	}
	return data, nil
}

// resolve joins path onto the base URL. A query string in path is kept.
func (c *Client) resolve(path string) string {
	u := *c.base
	p, query, _ := strings.Cut(path, "?")
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(p, "/")
	u.RawPath = ""
	u.RawQuery = query
	return u.String()
}

func (c *Client) requestID(ctx context.Context) string {
	if meta, ok := observe.RequestFromContext(ctx); ok && meta.ID != "" {
		return meta.ID
	}
	return c.newID()
}

// classifyTransportError maps a failure below HTTP onto a status-less
// classify.Failure.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return classify.NetworkFailure(PrefixRefused + ": " + err.Error())
	case isTimeout(err):
		return classify.NetworkFailure(PrefixTimeout + ": " + err.Error())
	default:
		return classify.NetworkFailure(PrefixNetwork + ": " + err.Error())
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// errorMessage extracts a human-readable message from an error body,
// falling back to the status text.
func errorMessage(body []byte, status int) string {
	if len(body) > 0 && gjson.ValidBytes(body) {
		for _, path := range messagePaths {
			r := gjson.GetBytes(body, path)
			if r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
				return r.Str
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("unexpected status %d", status)
}
