package classify

import "strings"

// User-facing messages returned by FormatForUser.
const (
	MsgSessionExpired    = "session expired, please sign in again"
	MsgForbidden         = "insufficient permission"
	MsgNotFound          = "resource not found"
	MsgServerUnavailable = "server temporarily unavailable, try again later"
	MsgNetwork           = "network connection problem, check your internet connection"
	MsgUnknown           = "unknown error"
)

// OfflineIndicators are the lower-case message fragments that mark a
// status-less failure as offline-triggering. Order matters only for
// short-circuiting.
var OfflineIndicators = []string{
	"internal server error",
	"server is temporarily unavailable",
	"500",
	"econnrefused",
	"network request failed",
	"timeout",
}

// Kind is the retry classification of a failure.
type Kind int

const (
	// KindFatal failures are surfaced after a single attempt.
	KindFatal Kind = iota
	// KindRecoverable failures are retried with backoff.
	KindRecoverable
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindFatal:
		return "fatal"
	case KindRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// Classify returns the retry classification of f.
func Classify(f Failure) Kind {
	if IsRecoverable(f) {
		return KindRecoverable
	}
	return KindFatal
}

func isClientError(code int) bool { return code >= 400 && code < 500 }
func isServerError(code int) bool { return code >= 500 && code < 600 }

// IsRecoverable reports whether f is worth retrying.
//
// Client errors are fatal except 408 and 429. Server errors and failures
// without a status are recoverable. Any other status falls through as
// recoverable.
func IsRecoverable(f Failure) bool {
	if !f.HasStatus() {
		return true
	}
	if isClientError(f.StatusCode) {
		return f.StatusCode == 408 || f.StatusCode == 429
	}
	return true
}

// ShouldUseOfflineMode reports whether f indicates unreachable
// infrastructure, in which case fallback data should replace the error.
func ShouldUseOfflineMode(f Failure) bool {
	if f.HasStatus() && isServerError(f.StatusCode) {
		return true
	}

	msg := strings.ToLower(f.Message)
	for _, indicator := range OfflineIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

// FormatForUser renders f as a message suitable for display.
func FormatForUser(f Failure) string {
	switch f.StatusCode {
	case 401:
		return MsgSessionExpired
	case 403:
		return MsgForbidden
	case 404:
		return MsgNotFound
	case 500, 502, 503, 504:
		return MsgServerUnavailable
	}

	if strings.Contains(strings.ToLower(f.Message), "network") {
		return MsgNetwork
	}
	if f.Message == "" {
		return MsgUnknown
	}
	return f.Message
}

// Recoverable is IsRecoverable applied to an arbitrary error.
func Recoverable(err error) bool {
	return IsRecoverable(Of(err))
}

// Offline is ShouldUseOfflineMode applied to an arbitrary error.
func Offline(err error) bool {
	return ShouldUseOfflineMode(Of(err))
}

// UserMessage is FormatForUser applied to an arbitrary error.
func UserMessage(err error) string {
	return FormatForUser(Of(err))
}
