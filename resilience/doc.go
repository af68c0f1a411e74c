// Package resilience decides, for every outbound request, whether to retry,
// how long to wait between attempts, and when to substitute fallback data
// for an error.
//
// # Retry loop
//
// Execute runs an operation up to Policy.MaxRetries+1 times. After each
// failure the classify package judges the error:
//
//   - a fatal failure (4xx other than 408/429) stops the loop at once;
//   - a recoverable failure waits DelayFor(n) and tries again, until the
//     budget is spent.
//
// When the loop stops on a failure, offline-indicating failures (5xx,
// refused connections, timeouts...) are replaced by the caller's fallback
// value with IsOffline set and a user-facing message attached. Any other
// failure is returned to the caller unchanged.
//
// # Backoff
//
// DelayFor is deterministic: 1s, 2s, 4s, 8s, then 10s for every later
// attempt. There is no jitter.
//
// # Deadlines
//
// Within bounds a single operation by a clock-driven timer and returns
// ErrTimeout when the timer wins.
//
// # Usage
//
//	exec := resilience.NewExecutor()
//
//	out, err := resilience.Execute(ctx, exec,
//	    func(ctx context.Context) (Profile, error) {
//	        return api.GetProfile(ctx)
//	    },
//	    cachedProfile,
//	    resilience.DefaultPolicy(),
//	)
//	if err != nil {
//	    return err // fatal, not offline-related
//	}
//	if out.IsOffline {
//	    banner.Show(out.Error)
//	}
//	render(out.Data)
package resilience
