package resilience

import "time"

const (
	// BaseDelay is the wait before the first retry.
	BaseDelay = time.Second

	// MaxDelay caps every wait.
	MaxDelay = 10 * time.Second
)

// DelayFor returns the wait before retry attempt n (zero-based):
// min(BaseDelay * 2^n, MaxDelay). Negative attempts are treated as 0.
func DelayFor(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Any shift past this point is already far beyond MaxDelay.
	if attempt > 30 {
		return MaxDelay
	}
	return min(BaseDelay<<attempt, MaxDelay)
}
