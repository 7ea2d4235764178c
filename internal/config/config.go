// Package config handles TOML configuration parsing, defaults, and validation for lumen-dhcpc.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration for lumen-dhcpc.
type Config struct {
	Client   ClientConfig   `toml:"client"`
	Metrics  MetricsConfig  `toml:"metrics"`
	DNSCheck DNSCheckConfig `toml:"dnscheck"`
}

// ClientConfig holds core client settings.
type ClientConfig struct {
	Interface string `toml:"interface"`
	// NetworkID keys the persisted lease. Empty disables persistence.
	NetworkID string `toml:"network_id"`
	// Hostname to offer to the server via option 12. Empty sends none.
	Hostname        string `toml:"hostname"`
	LogLevel        string `toml:"log_level"`
	LeaseDB         string `toml:"lease_db"`
	DiscoverTimeout string `toml:"discover_timeout"`
	RequestTimeout  string `toml:"request_timeout"`
	MaxRetries      int    `toml:"max_retries"`
}

// MetricsConfig holds the Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// DNSCheckConfig controls probing of lease-provided DNS servers after binding.
type DNSCheckConfig struct {
	Enabled bool   `toml:"enabled"`
	Timeout string `toml:"timeout"`
	Domain  string `toml:"domain"`
}

// Load reads and parses a TOML config file, applies defaults, and validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills in default values for unset fields.
func applyDefaults(cfg *Config) {
	if cfg.Client.Interface == "" {
		cfg.Client.Interface = DefaultInterface
	}
	if cfg.Client.LogLevel == "" {
		cfg.Client.LogLevel = DefaultLogLevel
	}
	if cfg.Client.LeaseDB == "" {
		cfg.Client.LeaseDB = DefaultLeaseDB
	}
	if cfg.Client.DiscoverTimeout == "" {
		cfg.Client.DiscoverTimeout = DefaultDiscoverTimeout.String()
	}
	if cfg.Client.RequestTimeout == "" {
		cfg.Client.RequestTimeout = DefaultRequestTimeout.String()
	}
	if cfg.Client.MaxRetries == 0 {
		cfg.Client.MaxRetries = DefaultMaxRetries
	}

	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}

	if cfg.DNSCheck.Timeout == "" {
		cfg.DNSCheck.Timeout = DefaultDNSCheckTimeout.String()
	}
	if cfg.DNSCheck.Domain == "" {
		cfg.DNSCheck.Domain = DefaultDNSCheckDomain
	}
}

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	switch cfg.Client.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("client.log_level must be debug, info, warn, or error, got %q", cfg.Client.LogLevel)
	}

	if _, err := time.ParseDuration(cfg.Client.DiscoverTimeout); err != nil {
		return fmt.Errorf("client.discover_timeout: %w", err)
	}
	if _, err := time.ParseDuration(cfg.Client.RequestTimeout); err != nil {
		return fmt.Errorf("client.request_timeout: %w", err)
	}
	if cfg.Client.MaxRetries < 0 {
		return fmt.Errorf("client.max_retries must not be negative, got %d", cfg.Client.MaxRetries)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics are enabled")
	}

	if cfg.DNSCheck.Enabled {
		if _, err := time.ParseDuration(cfg.DNSCheck.Timeout); err != nil {
			return fmt.Errorf("dnscheck.timeout: %w", err)
		}
	}

	return nil
}

// GetDiscoverTimeout returns the parsed discover timeout.
func (cfg *Config) GetDiscoverTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.Client.DiscoverTimeout)
	if err != nil {
		return DefaultDiscoverTimeout
	}
	return d
}

// GetRequestTimeout returns the parsed request timeout.
func (cfg *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.Client.RequestTimeout)
	if err != nil {
		return DefaultRequestTimeout
	}
	return d
}

// GetDNSCheckTimeout returns the parsed DNS probe timeout.
func (cfg *Config) GetDNSCheckTimeout() time.Duration {
	d, err := time.ParseDuration(cfg.DNSCheck.Timeout)
	if err != nil {
		return DefaultDNSCheckTimeout
	}
	return d
}
