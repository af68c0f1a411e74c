package observe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/netresilience/observe/exporters"
)

// Observer owns the telemetry providers built from a Config.
//
// Shutdown flushes and stops the providers. It is safe to call more than
// once; later calls return the first result.
type Observer interface {
	Tracer() trace.Tracer
	Meter() metric.Meter
	Logger() Logger
	Shutdown(ctx context.Context) error
}

type observer struct {
	tracer trace.Tracer
	meter  metric.Meter
	logger Logger

	stops    []func(context.Context) error
	stopOnce sync.Once
	stopErr  error
}

// NewObserver builds the enabled signals of cfg. Disabled signals get no-op
// implementations. Exporter options are forwarded to the exporter factory.
func NewObserver(ctx context.Context, cfg Config, opts ...exporters.Option) (Observer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
	))
	if err != nil {
		return nil, fmt.Errorf("observe: resource: %w", err)
	}

	obs := &observer{
		tracer: tracenoop.NewTracerProvider().Tracer(""),
		meter:  metricnoop.NewMeterProvider().Meter(""),
		logger: NoopLogger(),
	}

	if cfg.Tracing.Enabled {
		tp, err := newTracerProvider(ctx, cfg.Tracing, res, opts)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		obs.tracer = tp.Tracer(cfg.ServiceName)
		obs.stops = append(obs.stops, tp.Shutdown)
	}

	if cfg.Metrics.Enabled {
		mp, err := newMeterProvider(ctx, cfg.Metrics, res, opts)
		if err != nil {
			_ = obs.Shutdown(ctx)
			return nil, err
		}
		otel.SetMeterProvider(mp)
		obs.meter = mp.Meter(cfg.ServiceName)
		obs.stops = append(obs.stops, mp.Shutdown)
	}

	if cfg.Logging.Enabled {
		if cfg.Logging.Format == "text" {
			obs.logger = NewConsoleLogger(cfg.Logging.Level, os.Stderr)
		} else {
			obs.logger = NewLogger(cfg.Logging.Level)
		}
	}

	return obs, nil
}

func newTracerProvider(ctx context.Context, cfg TracingConfig, res *resource.Resource, opts []exporters.Option) (*sdktrace.TracerProvider, error) {
	exp, err := exporters.NewTracingExporter(ctx, cfg.Exporter, opts...)
	if err != nil {
		return nil, fmt.Errorf("observe: tracing: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplePct))),
	}
	if exp != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exp))
	}
	return sdktrace.NewTracerProvider(tpOpts...), nil
}

func newMeterProvider(ctx context.Context, cfg MetricsConfig, res *resource.Resource, opts []exporters.Option) (*sdkmetric.MeterProvider, error) {
	reader, err := exporters.NewMetricsReader(ctx, cfg.Exporter, opts...)
	if err != nil {
		return nil, fmt.Errorf("observe: metrics: %w", err)
	}

	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if reader != nil {
		mpOpts = append(mpOpts, sdkmetric.WithReader(reader))
	}
	return sdkmetric.NewMeterProvider(mpOpts...), nil
}

func (o *observer) Tracer() trace.Tracer { return o.tracer }
func (o *observer) Meter() metric.Meter  { return o.meter }
func (o *observer) Logger() Logger       { return o.logger }

func (o *observer) Shutdown(ctx context.Context) error {
	o.stopOnce.Do(func() {
		var errs []error
		for i := len(o.stops) - 1; i >= 0; i-- {
			if err := o.stops[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		o.stopErr = errors.Join(errs...)
	})
	return o.stopErr
}

// Instruments bundles the telemetry handles consumed by the executor, the
// prober and the transport. A zero field means "record nothing".
type Instruments struct {
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger
}

// NewInstruments builds Instruments from an Observer.
func NewInstruments(obs Observer) (Instruments, error) {
	if obs == nil {
		return Instruments{}, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return Instruments{}, err
	}
	return Instruments{
		Tracer:  NewTracer(obs.Tracer()),
		Metrics: metrics,
		Logger:  obs.Logger(),
	}, nil
}

func NoopInstruments() Instruments {
	return Instruments{
		Tracer:  NoopTracer(),
		Metrics: NoopMetrics(),
		Logger:  NoopLogger(),
	}
}
