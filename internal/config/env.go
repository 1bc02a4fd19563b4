package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rshade/userfeed/internal/cache"
)

// Environment variables read by ApplyEnv.
const (
	EnvBaseURL   = "USERFEED_BASE_URL"
	EnvSeed      = "USERFEED_SEED"
	EnvPageSize  = "USERFEED_PAGE_SIZE"
	EnvMaxPages  = "USERFEED_MAX_PAGES"
	EnvLogLevel  = "USERFEED_LOG_LEVEL"
	EnvLogFormat = "USERFEED_LOG_FORMAT"
)

// ApplyEnv overlays USERFEED_* variables onto c. Numeric variables that do
// not parse are reported; the cache variables fall back silently like the
// cache package does.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Source.BaseURL = v
	}
	if v, ok := os.LookupEnv(EnvSeed); ok {
		c.Source.Seed = v
	}
	if err := envInt(EnvPageSize, &c.Source.PageSize); err != nil {
		return err
	}
	if err := envInt(EnvMaxPages, &c.Source.MaxPages); err != nil {
		return err
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}

	c.Cache.Enabled = cache.EnabledFromEnv(c.Cache.Enabled)
	c.Cache.Directory = cache.DirFromEnv(c.Cache.Directory)
	c.Cache.TTLSeconds = cache.TTLFromEnv(c.Cache.TTLSeconds)
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}
