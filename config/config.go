// Package config loads netprobe configuration from YAML.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/netresilience/cache"
	"github.com/jonwraymond/netresilience/health"
	"github.com/jonwraymond/netresilience/observe"
	"github.com/jonwraymond/netresilience/resilience"
	"github.com/jonwraymond/netresilience/secret"
)

// Config is the root configuration document.
type Config struct {
	Server  ServerConfig      `yaml:"server"`
	Retry   resilience.Policy `yaml:"retry"`
	Health  HealthConfig      `yaml:"health"`
	Cache   cache.Policy      `yaml:"cache"`
	Observe observe.Config    `yaml:"observe"`
	Listen  ListenConfig      `yaml:"listen"`
}

// ServerConfig describes the remote server.
type ServerConfig struct {
	BaseURL        string            `yaml:"base_url"`
	RequestTimeout time.Duration     `yaml:"request_timeout"`
	Headers        map[string]string `yaml:"headers"` // values may hold secretref: references
}

// HealthConfig configures reachability probing. Each probe is bounded by
// health.ProbeTimeout.
type HealthConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// ListenConfig configures the local status and metrics endpoints.
type ListenConfig struct {
	Address string `yaml:"address"` // empty disables the listener
}

// Default returns the configuration used for keys a document omits.
func Default() Config {
	return Config{
		Server: ServerConfig{
			RequestTimeout: 30 * time.Second,
		},
		Retry: resilience.DefaultPolicy(),
		Health: HealthConfig{
			Enabled:  true,
			Interval: health.DefaultInterval,
		},
		Cache: cache.DefaultPolicy(),
		Observe: observe.Config{
			ServiceName: "netprobe",
			Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
		},
		Listen: ListenConfig{Address: ":9464"},
	}
}

// Load reads, expands and validates the file at path.
func Load(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML document on top of Default.
//
// $VAR and ${VAR} references anywhere in the document are expanded first
// and must be set; "$$" is a literal "$". Header values are then resolved
// for secretref: references. Unknown keys are rejected.
func Parse(ctx context.Context, data []byte) (*Config, error) {
	expanded, err := secret.ExpandEnvStrict(string(data))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	headers, err := secret.NewResolver().ExpandRefsMap(ctx, cfg.Server.Headers)
	if err != nil {
		return nil, fmt.Errorf("config: server.headers: %w", err)
	}
	cfg.Server.Headers = headers

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
