package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
)

// drainTimers advances mClock through every timer the code under test
// creates until done is closed, returning the durations it advanced by.
func drainTimers(t *testing.T, mClock *quartz.Mock, done <-chan struct{}) []time.Duration {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var waits []time.Duration
	for {
		select {
		case <-done:
			return waits
		case <-ctx.Done():
			t.Fatal("timed out waiting for code under test")
		default:
		}

		d, ok := mClock.Peek()
		if !ok {
			time.Sleep(time.Millisecond)
			continue
		}
		waits = append(waits, d)
		mClock.Advance(d).MustWait(ctx)
	}
}
