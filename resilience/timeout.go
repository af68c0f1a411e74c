package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/coder/quartz"
)

// ErrTimeout is returned by Within when the deadline fires first.
var ErrTimeout = errors.New("resilience: operation timed out")

// DefaultTimeout applies when Within is given a non-positive duration.
const DefaultTimeout = 30 * time.Second

// Within runs op and returns its result, or ErrTimeout once d has elapsed
// on clock. A nil clock means the real clock. The context handed to op is
// cancelled when Within returns, so a losing op is asked to stop.
func Within[T any](ctx context.Context, clock quartz.Clock, d time.Duration, op Operation[T]) (T, error) {
	var zero T
	if op == nil {
		return zero, ErrNilOperation
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if d <= 0 {
		d = DefaultTimeout
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := op(ctx)
		done <- result{v, err}
	}()

	timer := clock.NewTimer(d, "resilience", "within")
	defer timer.Stop()

	select {
	case r := <-done:
		return r.v, r.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
