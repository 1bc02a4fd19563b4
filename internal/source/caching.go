package source

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rshade/userfeed/internal/cache"
	"github.com/rshade/userfeed/internal/feed"
)

// CachingSource serves pages from a FileStore and falls through to next on
// a miss. Failed fetches are never cached.
type CachingSource struct {
	next   feed.Source
	store  *cache.FileStore
	key    cache.PageKey
	logger zerolog.Logger
}

// NewCachingSource wraps next. key describes the upstream request; its Page
// field is filled per call.
func NewCachingSource(next feed.Source, store *cache.FileStore, key cache.PageKey, logger zerolog.Logger) *CachingSource {
	return &CachingSource{next: next, store: store, key: key, logger: logger}
}

// KeyFor builds the cache key identifying r's pages.
func KeyFor(r *RandomUser) cache.PageKey {
	return cache.PageKey{
		BaseURL:       r.Endpoint(),
		Seed:          r.Seed(),
		PageSize:      r.PageSize(),
		MaxPages:      r.MaxPages(),
		Nationalities: r.Nationalities(),
	}
}

// FetchPage implements feed.Source.
func (c *CachingSource) FetchPage(ctx context.Context, token int) (feed.Page, error) {
	if !c.store.Enabled() {
		return c.next.FetchPage(ctx, token)
	}

	k := c.key
	k.Page = token
	key, err := cache.GenerateKey(k)
	if err != nil {
		// Invalid tokens are the adapter's to reject.
		return c.next.FetchPage(ctx, token)
	}

	if page, ok := c.lookup(ctx, key, token); ok {
		return page, nil
	}

	page, err := c.next.FetchPage(ctx, token)
	if err != nil {
		return page, err
	}

	raw, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn().Ctx(ctx).Err(err).Int("token", token).Msg("encoding page for cache")
		return page, nil
	}
	if err = c.store.Set(key, raw); err != nil {
		c.logger.Warn().Ctx(ctx).Err(err).Int("token", token).Msg("writing page to cache")
	}
	return page, nil
}

func (c *CachingSource) lookup(ctx context.Context, key string, token int) (feed.Page, bool) {
	entry, err := c.store.Get(key)
	switch {
	case err == nil:
	case errors.Is(err, cache.ErrNotFound), errors.Is(err, cache.ErrExpired):
		c.logger.Debug().Ctx(ctx).Int("token", token).Msg("page cache miss")
		return feed.Page{}, false
	default:
		c.logger.Warn().Ctx(ctx).Err(err).Int("token", token).Msg("reading page cache")
		return feed.Page{}, false
	}

	var page feed.Page
	if err = json.Unmarshal(entry.Data, &page); err != nil {
		c.logger.Warn().Ctx(ctx).Err(err).Int("token", token).Msg("discarding corrupt cache entry")
		_ = c.store.Delete(key)
		return feed.Page{}, false
	}
	c.logger.Debug().Ctx(ctx).Int("token", token).Dur("age", entry.Age()).Msg("page cache hit")
	return page, true
}
