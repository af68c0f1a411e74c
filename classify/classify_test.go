package classify

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		f    Failure
		want bool
	}{
		{"no status", Failure{}, true},
		{"no status with message", Failure{Message: "boom"}, true},
		{"400", Failure{StatusCode: 400}, false},
		{"401", Failure{StatusCode: 401}, false},
		{"404", Failure{StatusCode: 404}, false},
		{"408", Failure{StatusCode: 408}, true},
		{"429", Failure{StatusCode: 429}, true},
		{"499", Failure{StatusCode: 499}, false},
		{"500", Failure{StatusCode: 500}, true},
		{"503", Failure{StatusCode: 503}, true},
		{"599", Failure{StatusCode: 599}, true},
		{"302 falls through", Failure{StatusCode: 302}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecoverable(tt.f); got != tt.want {
				t.Errorf("IsRecoverable(%+v) = %v, want %v", tt.f, got, tt.want)
			}
		})
	}
}

func TestShouldUseOfflineMode(t *testing.T) {
	tests := []struct {
		name string
		f    Failure
		want bool
	}{
		{"503", Failure{StatusCode: 503}, true},
		{"500", Failure{StatusCode: 500}, true},
		{"network request failed mixed case", Failure{Message: "Network request failed"}, true},
		{"404 not found", Failure{StatusCode: 404, Message: "not found"}, false},
		{"internal server error", Failure{Message: "Internal Server Error"}, true},
		{"temporarily unavailable", Failure{Message: "The server is temporarily unavailable"}, true},
		{"500 in message", Failure{Message: "upstream said 500"}, true},
		{"econnrefused", Failure{Message: "connect ECONNREFUSED 10.0.0.1:443"}, true},
		{"timeout", Failure{Message: "request Timeout"}, true},
		{"404 with timeout message", Failure{StatusCode: 404, Message: "gateway timeout"}, true},
		{"plain message", Failure{Message: "validation failed"}, false},
		{"empty", Failure{}, false},
		{"429", Failure{StatusCode: 429}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldUseOfflineMode(tt.f); got != tt.want {
				t.Errorf("ShouldUseOfflineMode(%+v) = %v, want %v", tt.f, got, tt.want)
			}
		})
	}
}

func TestFormatForUser(t *testing.T) {
	tests := []struct {
		name string
		f    Failure
		want string
	}{
		{"401", Failure{StatusCode: 401, Message: "jwt expired"}, MsgSessionExpired},
		{"403", Failure{StatusCode: 403}, MsgForbidden},
		{"404", Failure{StatusCode: 404, Message: "no such user"}, MsgNotFound},
		{"500", Failure{StatusCode: 500}, MsgServerUnavailable},
		{"502", Failure{StatusCode: 502}, MsgServerUnavailable},
		{"503", Failure{StatusCode: 503}, MsgServerUnavailable},
		{"504", Failure{StatusCode: 504}, MsgServerUnavailable},
		{"501 uses message", Failure{StatusCode: 501, Message: "not implemented"}, "not implemented"},
		{"network message", Failure{Message: "Network request failed"}, MsgNetwork},
		{"raw message", Failure{StatusCode: 422, Message: "email already taken"}, "email already taken"},
		{"no message", Failure{}, MsgUnknown},
		{"no message with status", Failure{StatusCode: 418}, MsgUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatForUser(tt.f); got != tt.want {
				t.Errorf("FormatForUser(%+v) = %q, want %q", tt.f, got, tt.want)
			}
		})
	}
}

type codedError struct{ code int }

func (e codedError) Error() string   { return fmt.Sprintf("coded %d", e.code) }
func (e codedError) StatusCode() int { return e.code }

func TestOf(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if got := Of(nil); got != (Failure{}) {
			t.Errorf("Of(nil) = %+v, want zero", got)
		}
	})

	t.Run("wrapped failure", func(t *testing.T) {
		err := fmt.Errorf("fetch profile: %w", NewFailure(404, "not found"))
		got := Of(err)
		if got.StatusCode != 404 || got.Message != "not found" {
			t.Errorf("Of() = %+v, want {not found 404}", got)
		}
	})

	t.Run("status coder", func(t *testing.T) {
		got := Of(codedError{code: 429})
		if got.StatusCode != 429 {
			t.Errorf("StatusCode = %d, want 429", got.StatusCode)
		}
		if got.Message != "coded 429" {
			t.Errorf("Message = %q, want %q", got.Message, "coded 429")
		}
	})

	t.Run("typed nil failure", func(t *testing.T) {
		var f *Failure
		var err error = f
		if got := Of(err); got != (Failure{}) {
			t.Errorf("Of(typed nil) = %+v, want zero", got)
		}
		if got := Of(fmt.Errorf("wrapped: %w", err)); got != (Failure{}) {
			t.Errorf("Of(wrapped typed nil) = %+v, want zero", got)
		}
		if msg := err.Error(); msg != "" {
			t.Errorf("Error() = %q, want empty", msg)
		}
	})

	t.Run("plain error", func(t *testing.T) {
		got := Of(errors.New("socket hang up"))
		if got.HasStatus() {
			t.Errorf("HasStatus() = true, want false")
		}
		if got.Message != "socket hang up" {
			t.Errorf("Message = %q", got.Message)
		}
	})
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("load feed: %w", NewFailure(503, "Service Unavailable"))

	if !Recoverable(err) {
		t.Error("Recoverable() = false, want true")
	}
	if !Offline(err) {
		t.Error("Offline() = false, want true")
	}
	if got := UserMessage(err); got != MsgServerUnavailable {
		t.Errorf("UserMessage() = %q, want %q", got, MsgServerUnavailable)
	}
	if got := Classify(Of(err)); got != KindRecoverable {
		t.Errorf("Classify() = %v, want %v", got, KindRecoverable)
	}
	if got := Classify(Failure{StatusCode: 403}); got != KindFatal {
		t.Errorf("Classify() = %v, want %v", got, KindFatal)
	}
}

func TestFailureError(t *testing.T) {
	tests := []struct {
		f    *Failure
		want string
	}{
		{NetworkFailure("network request failed"), "network request failed"},
		{NewFailure(500, ""), "status 500"},
		{NewFailure(404, "not found"), "status 404: not found"},
	}
	for _, tt := range tests {
		if got := tt.f.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
