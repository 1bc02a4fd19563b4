package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// TTL bounds and environment overrides.
const (
	DefaultTTLSeconds = 3600
	MinTTLSeconds     = 60
	MaxTTLSeconds     = 604800

	EnvTTLSeconds   = "USERFEED_CACHE_TTL_SECONDS"
	EnvCacheEnabled = "USERFEED_CACHE_ENABLED"
	EnvCacheDir     = "USERFEED_CACHE_DIR"

	hoursPerDay = 24
)

// ErrInvalidTTL is returned for TTLs outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ValidateTTL checks seconds against the allowed range.
func ValidateTTL(seconds int) error {
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return nil
}

// TTLFromEnv returns USERFEED_CACHE_TTL_SECONDS, or fallback when unset or
// out of range.
func TTLFromEnv(fallback int) int {
	v := os.Getenv(EnvTTLSeconds)
	if v == "" {
		return fallback
	}
	ttl, err := ParseTTL(v)
	if err != nil {
		return fallback
	}
	return ttl
}

// EnabledFromEnv returns USERFEED_CACHE_ENABLED, or fallback when unset or
// unparseable.
func EnabledFromEnv(fallback bool) bool {
	v := os.Getenv(EnvCacheEnabled)
	if v == "" {
		return fallback
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return enabled
}

// DirFromEnv returns USERFEED_CACHE_DIR, or fallback when unset.
func DirFromEnv(fallback string) string {
	if v := os.Getenv(EnvCacheDir); v != "" {
		return filepath.Clean(v)
	}
	return fallback
}

// ParseTTL accepts integer seconds ("3600") or a duration ("1h30m").
func ParseTTL(s string) (int, error) {
	seconds, err := strconv.Atoi(s)
	if err != nil {
		d, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid TTL %q: %w", s, durErr)
		}
		seconds = int(d.Seconds())
	}
	if err = ValidateTTL(seconds); err != nil {
		return 0, err
	}
	return seconds, nil
}

// FormatDuration renders d compactly: "45s", "30m", "1h30m", "2d3h".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	case d < hoursPerDay*time.Hour:
		h, m := int(d.Hours()), int(d.Minutes())%60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
	days, h := int(d.Hours())/hoursPerDay, int(d.Hours())%hoursPerDay
	if h == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, h)
}
