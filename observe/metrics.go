package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels recorded on netres.request.outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeOffline  = "offline"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Metric names.
const (
	MetricAttempts      = "netres.request.attempts"
	MetricOutcomes      = "netres.request.outcomes"
	MetricBackoff       = "netres.backoff.wait_ms"
	MetricProbes        = "netres.probe.total"
	MetricProbeDuration = "netres.probe.duration_ms"
)

// Metrics records retry-loop and health-probe metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordAttempt records one invocation of an operation. kind is the
	// failure classification, or empty on success.
	RecordAttempt(ctx context.Context, meta RequestMeta, kind string)

	// RecordBackoff records one wait between attempts.
	RecordBackoff(ctx context.Context, meta RequestMeta, delay time.Duration)

	// RecordOutcome records how a retry loop ended.
	RecordOutcome(ctx context.Context, meta RequestMeta, outcome string)

	// RecordProbe records one health probe.
	RecordProbe(ctx context.Context, baseURL string, reachable bool, duration time.Duration)
}

type metricsImpl struct {
	attempts      metric.Int64Counter
	outcomes      metric.Int64Counter
	backoff       metric.Float64Histogram
	probes        metric.Int64Counter
	probeDuration metric.Float64Histogram
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	attempts, err := meter.Int64Counter(
		MetricAttempts,
		metric.WithDescription("Operation invocations made by the retry executor"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	outcomes, err := meter.Int64Counter(
		MetricOutcomes,
		metric.WithDescription("Completed retry loops by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	backoff, err := meter.Float64Histogram(
		MetricBackoff,
		metric.WithDescription("Backoff wait between attempts in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	probes, err := meter.Int64Counter(
		MetricProbes,
		metric.WithDescription("Health probes by reachability"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, err
	}

	probeDuration, err := meter.Float64Histogram(
		MetricProbeDuration,
		metric.WithDescription("Health probe duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		attempts:      attempts,
		outcomes:      outcomes,
		backoff:       backoff,
		probes:        probes,
		probeDuration: probeDuration,
	}, nil
}

func (m *metricsImpl) RecordAttempt(ctx context.Context, meta RequestMeta, kind string) {
	attrs := []attribute.KeyValue{
		attribute.String("request.name", meta.Label()),
		attribute.Bool("request.error", kind != ""),
	}
	if kind != "" {
		attrs = append(attrs, attribute.String("error.kind", kind))
	}
	m.attempts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metricsImpl) RecordBackoff(ctx context.Context, meta RequestMeta, delay time.Duration) {
	m.backoff.Record(ctx, float64(delay.Milliseconds()),
		metric.WithAttributes(attribute.String("request.name", meta.Label())))
}

func (m *metricsImpl) RecordOutcome(ctx context.Context, meta RequestMeta, outcome string) {
	m.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("request.name", meta.Label()),
		attribute.String("outcome", outcome),
	))
}

func (m *metricsImpl) RecordProbe(ctx context.Context, baseURL string, reachable bool, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("server.base_url", baseURL),
		attribute.Bool("server.reachable", reachable),
	)
	m.probes.Add(ctx, 1, opt)
	m.probeDuration.Record(ctx, float64(duration.Milliseconds()), opt)
}

type noopMetrics struct{}

// NoopMetrics returns a Metrics implementation that records nothing.
func NoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordAttempt(context.Context, RequestMeta, string)        {}
func (noopMetrics) RecordBackoff(context.Context, RequestMeta, time.Duration) {}
func (noopMetrics) RecordOutcome(context.Context, RequestMeta, string)        {}
func (noopMetrics) RecordProbe(context.Context, string, bool, time.Duration)  {}
