package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/rshade/userfeed/internal/feed"
)

// Breaker defaults.
const (
	DefaultBreakerFailures    = 3
	DefaultBreakerOpenTimeout = 30 * time.Second
)

// BreakerOptions configures a BreakerSource.
type BreakerOptions struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	OpenTimeout time.Duration
	Logger      zerolog.Logger
}

// BreakerSource stops calling next after repeated failures until the open
// timeout elapses. Rejected calls fail fast with an error matching
// ErrRequestFailed, so callers see the same failure kind as a real outage.
type BreakerSource struct {
	next feed.Source
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerSource wraps next with a circuit breaker.
func NewBreakerSource(next feed.Source, opts BreakerOptions) *BreakerSource {
	if opts.Name == "" {
		opts.Name = "randomuser"
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = DefaultBreakerFailures
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = DefaultBreakerOpenTimeout
	}
	logger := opts.Logger
	maxFailures := opts.MaxFailures

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		IsSuccessful: countsAsSuccess,
	})
	return &BreakerSource{next: next, cb: cb}
}

// countsAsSuccess keeps caller mistakes and cancellations from tripping
// the breaker.
func countsAsSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, context.Canceled)
}

// FetchPage implements feed.Source.
func (b *BreakerSource) FetchPage(ctx context.Context, token int) (feed.Page, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.FetchPage(ctx, token)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return feed.Page{}, fmt.Errorf("%w: page %d: %w", ErrRequestFailed, token, err)
		}
		return feed.Page{}, err
	}
	page, _ := out.(feed.Page)
	return page, nil
}

// State returns the breaker state name ("closed", "half-open", "open").
func (b *BreakerSource) State() string {
	return b.cb.State().String()
}
