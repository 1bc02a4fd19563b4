package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/userfeed/internal/config"
	"github.com/rshade/userfeed/internal/logging"
)

// annotationConfigTolerant marks commands that still run when the config
// file cannot be loaded, so a broken file can be replaced.
const annotationConfigTolerant = "config-tolerant"

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Replaced once logging is configured.

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	seed       string
	pageSize   int
	maxPages   int
	baseURL    string
	noCache    bool
}

// app is the state built in PersistentPreRunE and used by the commands.
type app struct {
	flags     globalFlags
	cfg       *config.Config
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root command for the userfeed CLI.
func NewRootCmd(ver string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "userfeed",
		Short:         "Browse a paginated feed of users",
		Long:          "userfeed pages through a randomuser.me compatible API and lets you filter, sort and browse the accumulated users.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, a.logResult)
		},
	}

	f := cmd.PersistentFlags()
	f.BoolVar(&a.flags.debug, "debug", false, "enable debug logging")
	f.StringVar(&a.flags.configPath, "config", "", "config file (default $USERFEED_HOME/config.yaml or ~/.userfeed/config.yaml)")
	f.StringVar(&a.flags.seed, "seed", "", "seed sent to the API for reproducible users")
	f.IntVar(&a.flags.pageSize, "page-size", 0, "users per page")
	f.IntVar(&a.flags.maxPages, "max-pages", 0, "page ceiling (0 = unlimited when set explicitly)")
	f.StringVar(&a.flags.baseURL, "base-url", "", "API base URL")
	f.BoolVar(&a.flags.noCache, "no-cache", false, "bypass the on-disk page cache")

	cmd.AddCommand(
		newBrowseCmd(a),
		newListCmd(a),
		newCacheCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// setup loads configuration, applies flag overrides and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		if cmd.Annotations[annotationConfigTolerant] != "true" {
			return err
		}
		cmd.PrintErrf("Warning: ignoring configuration: %v\n", err)
		cfg = config.Default()
	}
	a.applyFlags(cmd, cfg)
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	result := setupLogging(cmd, cfg, a.flags.debug, wantsInteractive(cmd))
	a.logResult = &result
	return nil
}

// applyFlags overlays explicitly set flags, which win over file and env.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("seed") {
		cfg.Source.Seed = a.flags.seed
	}
	if f.Changed("page-size") {
		cfg.Source.PageSize = a.flags.pageSize
	}
	if f.Changed("max-pages") {
		cfg.Source.MaxPages = a.flags.maxPages
	}
	if f.Changed("base-url") {
		cfg.Source.BaseURL = a.flags.baseURL
	}
	if a.flags.noCache {
		cfg.Cache.Enabled = false
	}
}

const rootCmdExample = `  # Browse users interactively
  userfeed browse

  # Print the first two pages of French users sorted by last name
  userfeed list --pages 2 --country fra --sort last

  # Export every page as NDJSON
  userfeed list --all --output ndjson

  # Prefetch pages into the cache
  userfeed cache warm --pages 3

  # Write a default configuration file
  userfeed config init`

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(newConfigInitCmd(a), newConfigShowCmd(a), newConfigPathCmd(a))
	return cmd
}
