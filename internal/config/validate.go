package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rshade/userfeed/internal/cache"
	"github.com/rshade/userfeed/internal/feed"
	"github.com/rshade/userfeed/internal/logging"
)

// Validation errors.
var (
	ErrInvalidBaseURL   = errors.New("source.base_url must be an absolute http(s) URL")
	ErrInvalidPageSize  = errors.New("source.page_size must be between 1 and 5000")
	ErrInvalidMaxPages  = errors.New("source.max_pages must be >= 0")
	ErrInvalidTimeout   = errors.New("source.timeout must be >= 0")
	ErrInvalidSort      = errors.New("view.sort is not a known sort key")
	ErrInvalidLogFormat = errors.New("logging.format must be json or console")
	ErrInvalidBreaker   = errors.New("breaker.max_failures must be >= 1")
)

// maxPageSize is the largest page randomuser.me will serve.
const maxPageSize = 5000

// Validate checks c and returns the first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Source.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Source.BaseURL)
	}
	if c.Source.PageSize < 1 || c.Source.PageSize > maxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, c.Source.PageSize)
	}
	if c.Source.MaxPages < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxPages, c.Source.MaxPages)
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTimeout, c.Source.Timeout)
	}
	if _, err = feed.ParseSortKey(c.View.Sort); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSort, err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format)
	}
	if c.Cache.Enabled {
		if err = cache.ValidateTTL(c.Cache.TTLSeconds); err != nil {
			return fmt.Errorf("cache.ttl_seconds: %w", err)
		}
	}
	if c.Breaker.Enabled && c.Breaker.MaxFailures < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidBreaker, c.Breaker.MaxFailures)
	}
	return nil
}
