package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// SpanResult summarizes a finished retry loop.
type SpanResult struct {
	Attempts int
	Offline  bool
	Err      error
}

// Tracer opens one client span per retry loop.
type Tracer interface {
	StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span)
	EndSpan(span trace.Span, res SpanResult)
}

type spanTracer struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return spanTracer{tracer: t}
}

// NoopTracer returns a tracer whose spans are never recorded.
func NoopTracer() Tracer {
	return NewTracer(tracenoop.NewTracerProvider().Tracer(""))
}

func (t spanTracer) StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (t spanTracer) EndSpan(span trace.Span, res SpanResult) {
	span.SetAttributes(
		attribute.Int("request.attempts", res.Attempts),
		attribute.Bool("request.offline", res.Offline),
	)
	switch {
	case res.Err != nil:
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	case res.Offline:
		span.AddEvent("fallback served")
		span.SetStatus(codes.Ok, "")
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
