package cache

import "time"

// Policy controls how long remembered responses stay usable.
type Policy struct {
	// TTL is the lifetime of a remembered response. Zero disables
	// remembering.
	TTL time.Duration `yaml:"ttl"`

	// MaxTTL caps every TTL handed to a MemoryCache. Zero means no cap.
	MaxTTL time.Duration `yaml:"max_ttl"`

	// AllowUnsafe also remembers responses to non-idempotent methods.
	AllowUnsafe bool `yaml:"allow_unsafe"`
}

// DefaultPolicy remembers responses for an hour, capped at a day.
func DefaultPolicy() Policy {
	return Policy{
		TTL:    time.Hour,
		MaxTTL: 24 * time.Hour,
	}
}

// Enabled reports whether responses are remembered at all.
func (p Policy) Enabled() bool {
	return p.TTL > 0
}

// Clamp limits ttl to MaxTTL.
func (p Policy) Clamp(ttl time.Duration) time.Duration {
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		return p.MaxTTL
	}
	return ttl
}

func (p Policy) Validate() error {
	if p.TTL < 0 || p.MaxTTL < 0 {
		return ErrInvalidPolicy
	}
	return nil
}
