package classify

import (
	"errors"
	"fmt"
)

// Failure is the shape of a failed operation as seen by the classifier.
//
// StatusCode is zero when the failure carried no status, which is the case
// for transport-level failures (refused connections, DNS errors, timeouts).
type Failure struct {
	Message    string
	StatusCode int
}

// NewFailure creates a Failure with a status code.
func NewFailure(statusCode int, message string) *Failure {
	return &Failure{Message: message, StatusCode: statusCode}
}

// NetworkFailure creates a Failure without a status code.
func NetworkFailure(message string) *Failure {
	return &Failure{Message: message}
}

// Error implements error. A nil *Failure reads as an empty message.
func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	if f.StatusCode == 0 {
		return f.Message
	}
	if f.Message == "" {
		return fmt.Sprintf("status %d", f.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", f.StatusCode, f.Message)
}

// HasStatus reports whether the failure carried a status code.
func (f Failure) HasStatus() bool {
	return f.StatusCode != 0
}

// StatusCoder is implemented by errors that expose an HTTP-style status.
type StatusCoder interface {
	StatusCode() int
}

// Of extracts the Failure carried by err.
//
// A *Failure anywhere in the chain is returned as-is, and a nil *Failure
// yields the zero Failure. Otherwise an error
// implementing StatusCoder supplies the status, and err.Error() the
// message. Any other error yields a status-less Failure, which the
// classifier treats as recoverable.
func Of(err error) Failure {
	if err == nil {
		return Failure{}
	}

	var f *Failure
	if errors.As(err, &f) {
		if f == nil {
			return Failure{}
		}
		return *f
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return Failure{Message: err.Error(), StatusCode: sc.StatusCode()}
	}

	return Failure{Message: err.Error()}
}
