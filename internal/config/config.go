// Package config loads userfeed settings from ~/.userfeed/config.yaml,
// layered under USERFEED_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/userfeed/internal/cache"
	"github.com/rshade/userfeed/internal/source"
)

// Config is the full userfeed configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	View    ViewConfig    `yaml:"view"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`
	Breaker BreakerConfig `yaml:"breaker"`
}

// SourceConfig describes the upstream user API.
type SourceConfig struct {
	BaseURL  string `yaml:"base_url"`
	Seed     string `yaml:"seed"`
	PageSize int    `yaml:"page_size"`
	// MaxPages caps how many pages are offered; 0 means unlimited.
	MaxPages      int           `yaml:"max_pages"`
	Nationalities []string      `yaml:"nationalities,omitempty"`
	Timeout       time.Duration `yaml:"timeout"`
}

// ViewConfig holds the initial view settings.
type ViewConfig struct {
	Locale     string `yaml:"locale"`
	Sort       string `yaml:"sort"`
	Country    string `yaml:"country,omitempty"`
	ShowColors bool   `yaml:"show_colors"`
}

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// CacheConfig controls the on-disk page cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// BreakerConfig controls the circuit breaker around the upstream API.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures int           `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

// DefaultTimeout bounds a single page request.
const DefaultTimeout = 15 * time.Second

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:  source.DefaultBaseURL,
			Seed:     source.DefaultSeed,
			PageSize: source.DefaultPageSize,
			MaxPages: source.DefaultMaxPages,
			Timeout:  DefaultTimeout,
		},
		View: ViewConfig{
			Locale:     "en",
			Sort:       "none",
			ShowColors: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: cache.DefaultTTLSeconds,
		},
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxFailures: source.DefaultBreakerFailures,
			OpenTimeout: source.DefaultBreakerOpenTimeout,
		},
	}
}

// Load reads path (or the default location when empty) over the defaults,
// merges a .userfeed.yaml from the working directory, applies environment
// overrides. Missing files are not an error. The result is not validated so
// callers can apply flags first; call Validate before use.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err = mergeLocal(cfg); err != nil {
		return nil, err
	}
	if err = cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// CacheDir returns the configured cache directory, or <config dir>/cache.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Directory != "" {
		return c.Cache.Directory, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}
