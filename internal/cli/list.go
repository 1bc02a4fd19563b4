package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/userfeed/internal/cli/pagination"
	"github.com/rshade/userfeed/internal/feed"
	"github.com/rshade/userfeed/internal/logging"
)

// ErrUnboundedFeed is returned for --all when no page ceiling is configured.
var ErrUnboundedFeed = errors.New("--all needs a page ceiling; set --max-pages")

type listOptions struct {
	pages   int
	all     bool
	country string
	sort    string
	output  string
	plain   bool
	colors  bool
	page    pagination.Params
}

func newListCmd(a *app) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch users and print them",
		Long: `Fetches pages from the API, accumulates them in order, then filters by
country and sorts before printing. Filtering and sorting never trigger
additional requests.`,
		Example: `  # First page as a table
  userfeed list

  # Three pages, Spanish users only, sorted by first name
  userfeed list --pages 3 --country spain --sort first

  # Everything up to the ceiling as JSON
  userfeed list --all --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, a, opts)
		},
	}

	cmd.Flags().IntVar(&opts.pages, "pages", 1, "number of pages to fetch")
	cmd.Flags().BoolVar(&opts.all, "all", false, "fetch until the feed is exhausted")
	cmd.Flags().StringVar(&opts.country, "country", "", "case-insensitive country substring filter")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "sort key: none, country, first, last (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", string(outputTable), "output format: table, json, ndjson")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable styling in table output")
	cmd.Flags().BoolVar(&opts.colors, "colors", false, "stripe alternate rows (default from config)")
	opts.page.AddFlags(cmd)
	return cmd
}

func runList(cmd *cobra.Command, a *app, opts listOptions) error {
	ctx := cmd.Context()
	cfg := a.cfg

	format, err := parseOutputFormat(opts.output)
	if err != nil {
		return err
	}
	if err = opts.page.Validate(); err != nil {
		return err
	}
	if opts.pages < 1 {
		return fmt.Errorf("--pages must be >= 1, got %d", opts.pages)
	}
	if opts.all && cfg.Source.MaxPages == 0 {
		return ErrUnboundedFeed
	}

	sortName := cfg.View.Sort
	if cmd.Flags().Changed("sort") {
		sortName = opts.sort
	}
	key, err := feed.ParseSortKey(sortName)
	if err != nil {
		return err
	}
	country := cfg.View.Country
	if cmd.Flags().Changed("country") {
		country = opts.country
	}
	colors := cfg.View.ShowColors
	if cmd.Flags().Changed("colors") {
		colors = opts.colors
	}

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	state := collectPages(ctx, newAccumulator(ctx, p), opts.pages, opts.all)

	projected := feed.NewProjector(cfg.View.Locale).Project(state.Records, country, key)
	window := pagination.Apply(opts.page, projected)
	meta := pagination.NewMeta(opts.page, len(projected), len(window), state.Pages, state.HasMore)

	r := renderer{
		out:    cmd.OutOrStdout(),
		format: format,
		plain:  opts.plain,
		locale: cfg.View.Locale,
		colors: colors,
	}
	if err = r.render(window, meta, len(state.Records)); err != nil {
		return err
	}

	if state.Failed() {
		logger.Warn().Ctx(ctx).Err(state.Err).Str("breaker", p.breakerState()).Msg("feed stopped early")
		return fmt.Errorf("feed incomplete after %d page(s), breaker %s: %w",
			state.Pages, p.breakerState(), state.Err)
	}
	return nil
}

// collectPages loads the first page and then up to pages-1 more, or until
// the feed is exhausted when all is set. It stops at the first failure.
func collectPages(ctx context.Context, acc *feed.Accumulator, pages int, all bool) feed.State {
	log := logging.FromContext(ctx)

	acc.FetchFirstPage(ctx)
	for fetched := 1; all || fetched < pages; fetched++ {
		if !acc.FetchNextPage(ctx) {
			break
		}
	}

	state := acc.State()
	log.Debug().Ctx(ctx).
		Int("pages", state.Pages).
		Int("records", len(state.Records)).
		Bool("has_more", state.HasMore).
		Str("phase", state.Phase.String()).
		Msg("feed collected")
	return state
}
