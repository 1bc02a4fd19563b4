package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/userfeed/internal/feed"
	"github.com/rshade/userfeed/internal/logging"
	"github.com/rshade/userfeed/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the user feed interactively",
		Long: `Opens a full-screen browser over the user feed. The first page loads on
start; press m (or n) to load the next page while more are available.

Keys:
  /      filter by country     s  cycle sort key
  d      hide selected user    u  restore hidden users
  r      reload from page 1    c  toggle row colors
  enter  show details          q  quit

Without a terminal, or with --plain, the first page is printed instead.`,
		Example: `  # Interactive browser
  userfeed browse

  # Start filtered and sorted
  userfeed browse --country germany --sort last`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, a, plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the first page instead of opening the browser")
	cmd.Flags().String("country", "", "initial country filter")
	cmd.Flags().String("sort", "", "initial sort key: none, country, first, last")
	return cmd
}

func runBrowse(cmd *cobra.Command, a *app, plain bool) error {
	ctx := cmd.Context()
	cfg := a.cfg

	if cmd.Flags().Changed("country") {
		cfg.View.Country, _ = cmd.Flags().GetString("country")
	}
	if cmd.Flags().Changed("sort") {
		cfg.View.Sort, _ = cmd.Flags().GetString("sort")
	}
	key, err := feed.ParseSortKey(cfg.View.Sort)
	if err != nil {
		return err
	}

	mode := tui.DetectOutputMode(plain, false, false)
	logger.Debug().Ctx(ctx).Str("output_mode", mode.String()).Msg("browse mode selected")
	if mode != tui.OutputModeInteractive {
		return runList(cmd, a, listOptions{
			pages:   1,
			country: cfg.View.Country,
			sort:    cfg.View.Sort,
			output:  string(outputTable),
			plain:   plain,
		})
	}

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	model := tui.NewFeedModel(ctx, newAccumulator(ctx, p), tui.ViewOptions{
		Locale:     cfg.View.Locale,
		Sort:       key,
		Country:    cfg.View.Country,
		ShowColors: cfg.View.ShowColors,
		Logger:     logging.ComponentLogger(*logging.FromContext(ctx), "tui"),
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("running browser: %w", err)
	}

	if fm, ok := final.(*tui.FeedModel); ok {
		state := fm.FeedState()
		logger.Info().Ctx(ctx).
			Int("records", len(state.Records)).
			Int("pages", state.Pages).
			Msg("browser closed")
	}
	return nil
}
