package cache

import "errors"

var (
	ErrNilCache      = errors.New("cache: cache is nil")
	ErrBadKey        = errors.New("cache: malformed key")
	ErrKeyTooLong    = errors.New("cache: key exceeds max length")
	ErrBadParams     = errors.New("cache: params are not valid JSON")
	ErrInvalidPolicy = errors.New("cache: TTLs must not be negative")
)
