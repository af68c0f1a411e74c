package cache

import (
	"context"
	"time"
)

// Cache holds response bodies by key. Implementations must be safe for
// concurrent use. A miss is reported through ok, never as an error.
type Cache interface {
	Get(ctx context.Context, key string) (body []byte, ok bool)

	// Set stores body for ttl. A non-positive ttl stores nothing.
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error

	// Delete is a no-op for unknown keys.
	Delete(ctx context.Context, key string) error
}
