package transport

import "errors"

var (
	// ErrInvalidBaseURL indicates the client was configured with an
	// unusable base URL.
	ErrInvalidBaseURL = errors.New("transport: invalid base URL")

	// ErrResponseTooLarge indicates a response body exceeded MaxBodySize.
	ErrResponseTooLarge = errors.New("transport: response body too large")
)
