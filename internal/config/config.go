// Package config loads propscope settings from the config file and the
// environment.
//
// Settings are read from ~/.config/propscope/config.toml when present,
// then overridden by PROPSCOPE_* environment variables. Everything has
// a usable default, so running without any configuration only fails
// once an operation actually needs an access token.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/propscope/propscope/pkg/errors"
	"github.com/propscope/propscope/pkg/retry"
)

// Defaults applied when neither the file nor the environment sets a value.
const (
	DefaultCacheMaxEntries = 2048
	DefaultCacheTTL        = 10 * time.Minute
	DefaultListenAddr      = ":8080"
)

// Config is the resolved application configuration.
type Config struct {
	// Token is the OAuth bearer token used against Google APIs.
	Token string `toml:"token"`

	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `toml:"listen_addr"`

	// MerchantID is the default Merchant Center account for gmc commands.
	MerchantID string `toml:"merchant_id"`

	Cache CacheConfig `toml:"cache"`
	Retry RetryConfig `toml:"retry"`
}

// CacheConfig bounds the in-process lookup cache.
type CacheConfig struct {
	MaxEntries int `toml:"max_entries"`
	// TTLSeconds is the entry lifetime. Fractional seconds are not
	// supported in configuration.
	TTLSeconds int `toml:"ttl_seconds"`
}

// RetryConfig tunes the retry schedule for upstream calls.
type RetryConfig struct {
	Retries     int     `toml:"retries"`
	BaseSeconds float64 `toml:"base_seconds"`
	CapSeconds  float64 `toml:"cap_seconds"`
}

// Path returns the location of the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "propscope", "config.toml"), nil
}

// Load reads the config file (if it exists) and applies environment
// overrides on top of the defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return load(path)
}

func load(path string) (*Config, error) {
	cfg := &Config{
		ListenAddr: DefaultListenAddr,
		Cache: CacheConfig{
			MaxEntries: DefaultCacheMaxEntries,
			TTLSeconds: int(DefaultCacheTTL.Seconds()),
		},
		Retry: RetryConfig{
			Retries:     retry.DefaultRetries,
			BaseSeconds: retry.DefaultBase.Seconds(),
			CapSeconds:  retry.DefaultCap.Seconds(),
		},
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing %s", path)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values from PROPSCOPE_* variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PROPSCOPE_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("PROPSCOPE_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PROPSCOPE_MERCHANT_ID"); v != "" {
		cfg.MerchantID = v
	}
	if v := os.Getenv("PROPSCOPE_CACHE_MAXSIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxEntries = n
		}
	}
	if v := os.Getenv("PROPSCOPE_CACHE_TTL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLSeconds = n
		}
	}
	if v := os.Getenv("PROPSCOPE_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.Retries = n
		}
	}
}

// validate rejects values that would break cache or retry construction.
func (c *Config) validate() error {
	if c.Cache.MaxEntries <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTLSeconds <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl_seconds must be positive, got %d", c.Cache.TTLSeconds)
	}
	if c.Retry.Retries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "retry retries must not be negative, got %d", c.Retry.Retries)
	}
	return nil
}

// CacheTTL returns the cache entry lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// RetryConfig converts the configured schedule for the retry package.
func (c *Config) RetryConfig() retry.Config {
	return retry.Config{
		Retries: c.Retry.Retries,
		Base:    time.Duration(c.Retry.BaseSeconds * float64(time.Second)),
		Cap:     time.Duration(c.Retry.CapSeconds * float64(time.Second)),
	}
}
