// Package config loads the application's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written as "30s" or
// "250ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds the settings shared by the web, CLI and MCP binaries.
type Config struct {
	// ListenAddr is the web server's bind address.
	ListenAddr string `yaml:"listen_addr"`

	// APIBaseURL is the card data provider root.
	APIBaseURL string `yaml:"api_base_url"`

	// UserAgent is sent on every provider request.
	UserAgent string `yaml:"user_agent"`

	// RequestTimeout bounds a single provider request.
	RequestTimeout Duration `yaml:"request_timeout"`

	// SimulatedLatency is an artificial delay before uncached searches.
	// Zero disables it.
	SimulatedLatency Duration `yaml:"simulated_latency"`

	// SearchCacheEnabled controls the per-query result cache. On unless
	// explicitly turned off.
	SearchCacheEnabled bool `yaml:"search_cache_enabled"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ListenAddr:         ":8080",
		APIBaseURL:         "https://api.scryfall.com",
		UserAgent:          "counterspell/1.0",
		RequestTimeout:     Duration(30 * time.Second),
		SearchCacheEnabled: true,
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// a malformed file is an error. Unset fields keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = Default().ListenAddr
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = Default().APIBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = Default().UserAgent
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = Default().RequestTimeout
	}
	return cfg, nil
}
