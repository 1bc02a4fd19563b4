package cli

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/userfeed/internal/cache"
	"github.com/rshade/userfeed/internal/feed"
)

// Warm defaults.
const (
	defaultWarmPages       = 3
	defaultWarmConcurrency = 4
	maxWarmConcurrency     = 16
)

// ErrCacheDisabled is returned by cache subcommands when caching is off.
var ErrCacheDisabled = errors.New("page cache is disabled (check cache.enabled or --no-cache)")

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk page cache",
	}
	cmd.AddCommand(newCacheWarmCmd(a), newCacheClearCmd(a), newCacheStatsCmd(a))
	return cmd
}

func newCacheWarmCmd(a *app) *cobra.Command {
	var (
		pages       int
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Prefetch pages into the cache",
		Long: `Fetches pages 1..N concurrently through the cache so later list and browse
runs replay them without network access. N is capped by the page ceiling.`,
		Example: `  userfeed cache warm --pages 3
  userfeed cache warm --pages 10 --concurrency 8 --max-pages 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheWarm(cmd, a, pages, concurrency)
		},
	}
	cmd.Flags().IntVar(&pages, "pages", defaultWarmPages, "number of pages to prefetch")
	cmd.Flags().IntVar(&concurrency, "concurrency", defaultWarmConcurrency, "parallel requests")
	return cmd
}

func runCacheWarm(cmd *cobra.Command, a *app, pages, concurrency int) error {
	ctx := cmd.Context()
	if pages < 1 {
		return fmt.Errorf("--pages must be >= 1, got %d", pages)
	}
	if concurrency < 1 || concurrency > maxWarmConcurrency {
		return fmt.Errorf("--concurrency must be between 1 and %d, got %d", maxWarmConcurrency, concurrency)
	}
	if ceiling := a.cfg.Source.MaxPages; ceiling > 0 && pages > ceiling {
		pages = ceiling
	}

	p, err := buildPipeline(ctx, a.cfg)
	if err != nil {
		return err
	}
	if !p.store.Enabled() {
		return ErrCacheDisabled
	}

	var records atomic.Int64
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for token := feed.FirstPage; token <= pages; token++ {
		g.Go(func() error {
			page, fetchErr := p.source.FetchPage(gctx, token)
			if fetchErr != nil {
				return fetchErr
			}
			records.Add(int64(len(page.Records)))
			logger.Debug().Ctx(gctx).Int("token", token).Int("records", len(page.Records)).Msg("page warmed")
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return fmt.Errorf("warming cache, breaker %s: %w", p.breakerState(), err)
	}

	cmd.Printf("Warmed %d page(s), %d users in %s (%s)\n",
		pages, records.Load(), time.Since(start).Round(time.Millisecond), p.store.Dir())
	return nil
}

func newCacheClearCmd(a *app) *cobra.Command {
	var expiredOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(a.cfg)
			if err != nil {
				return err
			}
			if !store.Enabled() {
				return ErrCacheDisabled
			}

			var n int
			if expiredOnly {
				n, err = store.CleanupExpired()
			} else {
				n, err = store.Clear()
			}
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			cmd.Printf("Removed %d cached page(s)\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&expiredOnly, "expired", false, "only remove expired entries")
	return cmd
}

func newCacheStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache location and usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(a.cfg)
			if err != nil {
				return err
			}
			if !store.Enabled() {
				cmd.Println("Cache: disabled")
				return nil
			}

			stats, err := store.Stats()
			if err != nil {
				return fmt.Errorf("reading cache stats: %w", err)
			}
			ttl := time.Duration(stats.TTLSeconds) * time.Second
			cmd.Printf("Directory: %s\n", stats.Directory)
			cmd.Printf("Entries:   %d (%d expired)\n", stats.Entries, stats.Expired)
			cmd.Printf("Size:      %d bytes\n", stats.Bytes)
			cmd.Printf("TTL:       %s\n", cache.FormatDuration(ttl))
			return nil
		},
	}
}
