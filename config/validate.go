package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validation errors.
var (
	ErrMissingBaseURL = errors.New("config: server.base_url is required")
	ErrInvalidBaseURL = errors.New("config: server.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout = errors.New("config: timeouts must be positive")
	ErrInvalidRetry   = errors.New("config: retry.max_retries must not be negative")
	ErrInvalidCache   = errors.New("config: invalid cache policy")
)

// Validate checks configuration correctness. It does not mutate c.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Server.BaseURL)
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("%w: server.request_timeout = %s", ErrInvalidTimeout, c.Server.RequestTimeout)
	}
	if c.Health.Interval <= 0 {
		return fmt.Errorf("%w: health.interval = %s", ErrInvalidTimeout, c.Health.Interval)
	}

	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRetry, c.Retry.MaxRetries)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCache, err)
	}

	if err := c.Observe.Validate(); err != nil {
		return fmt.Errorf("config: observe: %w", err)
	}
	return nil
}
