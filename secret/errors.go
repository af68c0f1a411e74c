package secret

import "errors"

var (
	// ErrMissingEnv indicates a ${VAR} reference to an unset variable.
	ErrMissingEnv = errors.New("secret: missing required environment variables")

	// ErrUnknownProvider indicates a reference names no registered provider.
	ErrUnknownProvider = errors.New("secret: provider not registered")

	// ErrEmptySecret indicates a provider resolved a reference to "".
	ErrEmptySecret = errors.New("secret: empty value")
)
