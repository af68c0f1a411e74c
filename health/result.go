package health

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProbeTimeout    = errors.New("health: probe timeout")
	ErrUnhealthyStatus = errors.New("health: unhealthy status")
	ErrInvalidBaseURL  = errors.New("health: invalid base URL")
)

// Result is the outcome of one probe.
type Result struct {
	BaseURL   string
	Reachable bool
	Err       error // nil iff Reachable
	Duration  time.Duration
	CheckedAt time.Time
}

// Reason summarizes a failed probe for humans. It is empty for a
// reachable result.
func (r Result) Reason() string {
	switch {
	case r.Reachable:
		return ""
	case errors.Is(r.Err, ErrInvalidBaseURL):
		return "invalid base URL"
	case errors.Is(r.Err, ErrProbeTimeout):
		return "health probe timed out"
	case errors.Is(r.Err, ErrUnhealthyStatus):
		return "health endpoint reported a failure"
	case errors.Is(r.Err, context.Canceled), errors.Is(r.Err, context.DeadlineExceeded):
		return "caller stopped waiting"
	default:
		return "server unreachable"
	}
}

// Checker runs a probe on demand.
type Checker interface {
	Check(ctx context.Context) Result
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) Result

func (f CheckFunc) Check(ctx context.Context) Result {
	return f(ctx)
}
