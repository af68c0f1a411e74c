package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/coder/quartz"

	"github.com/jonwraymond/netresilience/classify"
	"github.com/jonwraymond/netresilience/observe"
)

// ErrNilOperation is returned when Execute or Within is given a nil
// operation.
var ErrNilOperation = errors.New("resilience: operation is nil")

// DefaultMaxRetries is the retry budget used by DefaultPolicy.
const DefaultMaxRetries = 3

// Policy configures one Execute call.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt, so an
	// operation runs at most MaxRetries+1 times. Negative values mean 0.
	MaxRetries int `yaml:"max_retries"`
}

// DefaultPolicy returns a policy with DefaultMaxRetries.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: DefaultMaxRetries}
}

func (p Policy) retries() int {
	return max(p.MaxRetries, 0)
}

// Outcome is the result handed back by Execute.
type Outcome[T any] struct {
	// Data is the operation's result, or the fallback when IsOffline.
	Data T

	// IsOffline is true iff the fallback value was substituted.
	IsOffline bool

	// Error is the user-facing message for the failure that triggered the
	// fallback. Empty unless IsOffline.
	Error string
}

// Operation is a unit of work retried by Execute.
type Operation[T any] func(ctx context.Context) (T, error)

// Executor holds the collaborators shared by Execute calls. It carries no
// per-call state, so one Executor can serve any number of concurrent calls.
type Executor struct {
	clock   quartz.Clock
	tracer  observe.Tracer
	metrics observe.Metrics
	logger  observe.Logger
	onRetry func(attempt int, err error, delay time.Duration)
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new Executor. Without options it uses the real
// clock and records no telemetry.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		clock:   quartz.NewReal(),
		tracer:  observe.NoopTracer(),
		metrics: observe.NoopMetrics(),
		logger:  observe.NoopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithClock sets the clock used for backoff waits.
func WithClock(c quartz.Clock) ExecutorOption {
	return func(e *Executor) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithInstruments sets tracer, metrics and logger in one go.
func WithInstruments(inst observe.Instruments) ExecutorOption {
	return func(e *Executor) {
		WithTracer(inst.Tracer)(e)
		WithMetrics(inst.Metrics)(e)
		WithLogger(inst.Logger)(e)
	}
}

// WithTracer sets the tracer.
func WithTracer(t observe.Tracer) ExecutorOption {
	return func(e *Executor) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observe.Metrics) ExecutorOption {
	return func(e *Executor) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l observe.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOnRetry registers a callback invoked before each backoff wait with
// the zero-based attempt that just failed.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) ExecutorOption {
	return func(e *Executor) {
		e.onRetry = fn
	}
}

var defaultExecutor = NewExecutor()

// Execute runs op with retries and offline fallback.
//
// After each failed attempt n:
//   - a fatal failure ends the loop immediately;
//   - a recoverable failure with n < MaxRetries waits DelayFor(n) and
//     tries again;
//   - otherwise the loop ends.
//
// When the loop ends on a failure that classify.ShouldUseOfflineMode
// accepts, Execute returns the fallback with IsOffline set and a nil
// error. Any other failure is returned unmodified with a zero Outcome.
//
// Execute imposes no deadline on op. If ctx ends during a backoff wait,
// ctx.Err() is returned. A nil Executor uses package defaults.
func Execute[T any](ctx context.Context, e *Executor, op Operation[T], fallback T, policy Policy) (Outcome[T], error) {
	if op == nil {
		return Outcome[T]{}, ErrNilOperation
	}
	if e == nil {
		e = defaultExecutor
	}

	meta, _ := observe.RequestFromContext(ctx)
	ctx, span := e.tracer.StartSpan(ctx, meta)
	logger := e.logger.WithRequest(meta)
	maxRetries := policy.retries()

	var lastErr error
	attempts := 0

	finish := func(outcome string, offline bool, err error) {
		e.metrics.RecordOutcome(ctx, meta, outcome)
		e.tracer.EndSpan(span, observe.SpanResult{Attempts: attempts, Offline: offline, Err: err})
	}

	for n := 0; n <= maxRetries; n++ {
		attempts++
		v, err := op(ctx)
		if err == nil {
			e.metrics.RecordAttempt(ctx, meta, "")
			finish(observe.OutcomeSuccess, false, nil)
			return Outcome[T]{Data: v}, nil
		}

		lastErr = err
		failure := classify.Of(err)
		kind := classify.Classify(failure)
		e.metrics.RecordAttempt(ctx, meta, kind.String())

		if kind == classify.KindFatal {
			logger.Debug(ctx, "non-recoverable failure, not retrying",
				observe.Field{Key: "attempt", Value: n},
				observe.Field{Key: "status", Value: failure.StatusCode},
				observe.Field{Key: "error", Value: err.Error()},
			)
			break
		}
		if n == maxRetries {
			break
		}

		delay := DelayFor(n)
		if e.onRetry != nil {
			e.onRetry(n, err, delay)
		}
		logger.Warn(ctx, "attempt failed, retrying",
			observe.Field{Key: "attempt", Value: n},
			observe.Field{Key: "delay_ms", Value: delay.Milliseconds()},
			observe.Field{Key: "status", Value: failure.StatusCode},
			observe.Field{Key: "error", Value: err.Error()},
		)
		e.metrics.RecordBackoff(ctx, meta, delay)

		if err := e.wait(ctx, delay); err != nil {
			finish(observe.OutcomeCanceled, false, err)
			return Outcome[T]{}, err
		}
	}

	failure := classify.Of(lastErr)
	if classify.ShouldUseOfflineMode(failure) {
		msg := classify.FormatForUser(failure)
		logger.Warn(ctx, "serving fallback data",
			observe.Field{Key: "attempts", Value: attempts},
			observe.Field{Key: "status", Value: failure.StatusCode},
			observe.Field{Key: "user_message", Value: msg},
		)
		finish(observe.OutcomeOffline, true, nil)
		return Outcome[T]{Data: fallback, IsOffline: true, Error: msg}, nil
	}

	logger.Error(ctx, "request failed",
		observe.Field{Key: "attempts", Value: attempts},
		observe.Field{Key: "status", Value: failure.StatusCode},
		observe.Field{Key: "error", Value: lastErr.Error()},
	)
	finish(observe.OutcomeFailed, false, lastErr)
	return Outcome[T]{}, lastErr
}

// wait blocks for d on the executor's clock or until ctx ends.
func (e *Executor) wait(ctx context.Context, d time.Duration) error {
	timer := e.clock.NewTimer(d, "resilience", "backoff")
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
