// Package classify decides what a failed outbound request means.
//
// Every failure is reduced to a Failure (a message and an optional HTTP
// status code) and then judged by three independent, side-effect-free
// predicates:
//
//   - IsRecoverable reports whether the request is worth retrying.
//   - ShouldUseOfflineMode reports whether, once retries stop, the failure
//     points at unreachable infrastructure and fallback data should be
//     served instead of an error.
//   - FormatForUser renders a short message suitable for display.
//
// The two predicates intentionally disagree on some inputs: a 404 is
// neither retried nor offline-triggering, while a failure with no status
// is retried but only goes offline when its message matches a known
// indicator.
//
// # Usage
//
//	f := classify.Of(err)
//	if !classify.IsRecoverable(f) {
//	    // give up now
//	}
//	if classify.ShouldUseOfflineMode(f) {
//	    showBanner(classify.FormatForUser(f))
//	}
package classify
