package cli

import (
	"context"
	"net/http"

	"github.com/rshade/userfeed/internal/cache"
	"github.com/rshade/userfeed/internal/config"
	"github.com/rshade/userfeed/internal/feed"
	"github.com/rshade/userfeed/internal/logging"
	"github.com/rshade/userfeed/internal/source"
)

// pipeline is the assembled page source for one invocation.
type pipeline struct {
	source   feed.Source
	upstream *source.RandomUser
	store    *cache.FileStore
	breaker  *source.BreakerSource
}

// buildPipeline wires the randomuser adapter with the breaker and cache
// layers the configuration enables. Cache hits never touch the breaker.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	log := logging.ComponentLogger(*logging.FromContext(ctx), "source")

	upstream, err := source.NewRandomUser(source.Options{
		BaseURL:       cfg.Source.BaseURL,
		Seed:          cfg.Source.Seed,
		PageSize:      cfg.Source.PageSize,
		MaxPages:      cfg.Source.MaxPages,
		Nationalities: cfg.Source.Nationalities,
		HTTPClient:    &http.Client{Timeout: cfg.Source.Timeout},
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	p := &pipeline{source: upstream, upstream: upstream}

	if cfg.Breaker.Enabled {
		p.breaker = source.NewBreakerSource(upstream, source.BreakerOptions{
			MaxFailures: uint32(cfg.Breaker.MaxFailures), //nolint:gosec // Validated >= 1.
			OpenTimeout: cfg.Breaker.OpenTimeout,
			Logger:      log,
		})
		p.source = p.breaker
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	p.store = store
	if store.Enabled() {
		p.source = source.NewCachingSource(p.source, store, source.KeyFor(upstream), log)
	}

	log.Debug().Ctx(ctx).
		Str("endpoint", upstream.Endpoint()).
		Str("seed", upstream.Seed()).
		Int("page_size", upstream.PageSize()).
		Int("max_pages", upstream.MaxPages()).
		Bool("cache", store.Enabled()).
		Bool("breaker", cfg.Breaker.Enabled).
		Msg("source pipeline ready")
	return p, nil
}

// breakerState names the breaker's state, or "disabled".
func (p *pipeline) breakerState() string {
	if p.breaker == nil {
		return "disabled"
	}
	return p.breaker.State()
}

// openStore opens the page cache, or a disabled store when caching is off.
func openStore(cfg *config.Config) (*cache.FileStore, error) {
	if !cfg.Cache.Enabled {
		return cache.NewFileStore("", false, 0)
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileStore(dir, true, cfg.Cache.TTLSeconds)
}

// newAccumulator returns an accumulator over p that logs through ctx's logger.
func newAccumulator(ctx context.Context, p *pipeline) *feed.Accumulator {
	return feed.NewAccumulator(p.source,
		feed.WithLogger(logging.ComponentLogger(*logging.FromContext(ctx), "feed")))
}
