package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// RequestMeta identifies an outbound request for telemetry. Every field is
// optional.
type RequestMeta struct {
	Name     string // logical operation, e.g. "profile.get"
	Method   string
	Endpoint string // path or URL
	ID       string // correlation ID
}

// SpanName is "netres.request.<name>", or "netres.request" without a name.
func (m RequestMeta) SpanName() string {
	if m.Name != "" {
		return "netres.request." + m.Name
	}
	return "netres.request"
}

// Label is the low-cardinality value used in metric attributes.
func (m RequestMeta) Label() string {
	switch {
	case m.Name != "":
		return m.Name
	case m.Endpoint != "":
		return m.Endpoint
	default:
		return "unnamed"
	}
}

func (m RequestMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("request.name", m.Label())}
	if m.Method != "" {
		attrs = append(attrs, semconv.HTTPRequestMethodKey.String(m.Method))
	}
	if m.Endpoint != "" {
		attrs = append(attrs, attribute.String("request.endpoint", m.Endpoint))
	}
	if m.ID != "" {
		attrs = append(attrs, attribute.String("request.id", m.ID))
	}
	return attrs
}

func (m RequestMeta) logArgs() []any {
	args := []any{slog.String("request.name", m.Label())}
	if m.Method != "" {
		args = append(args, slog.String("request.method", m.Method))
	}
	if m.Endpoint != "" {
		args = append(args, slog.String("request.endpoint", m.Endpoint))
	}
	if m.ID != "" {
		args = append(args, slog.String("request.id", m.ID))
	}
	return args
}

type requestKey struct{}

// ContextWithRequest attaches meta to ctx.
func ContextWithRequest(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestKey{}, meta)
}

// RequestFromContext returns the metadata attached by ContextWithRequest.
func RequestFromContext(ctx context.Context) (RequestMeta, bool) {
	meta, ok := ctx.Value(requestKey{}).(RequestMeta)
	return meta, ok
}
