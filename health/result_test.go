package health

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestResult_Reason(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"reachable", Result{Reachable: true}, ""},
		{"invalid url", Result{Err: fmt.Errorf("%w: %q", ErrInvalidBaseURL, "x")}, "invalid base URL"},
		{"timeout", Result{Err: fmt.Errorf("%w after 5s", ErrProbeTimeout)}, "health probe timed out"},
		{"bad status", Result{Err: fmt.Errorf("%w: 503", ErrUnhealthyStatus)}, "health endpoint reported a failure"},
		{"network", Result{Err: errors.New("connection refused")}, "server unreachable"},
		{"caller gone", Result{Err: context.Canceled}, "caller stopped waiting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Reason(); got != tt.want {
				t.Errorf("Reason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckFunc(t *testing.T) {
	calls := 0
	var c Checker = CheckFunc(func(ctx context.Context) Result {
		calls++
		return Result{Reachable: true}
	})

	if !c.Check(context.Background()).Reachable || calls != 1 {
		t.Errorf("Check() not delegated, calls = %d", calls)
	}
}
