package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/userfeed/internal/config"
)

// configFilePath is --config when given, otherwise the default location.
func (a *app) configFilePath() (string, error) {
	if a.flags.configPath != "" {
		return a.flags.configPath, nil
	}
	return config.Path()
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Long: `Creates a configuration file with the built-in defaults, plus a .gitignore
that keeps cached pages and logs out of version control.`,
		Example: `  # Create ~/.userfeed/config.yaml
  userfeed config init

  # Replace an existing (possibly broken) file
  userfeed config init --force`,
		Annotations: map[string]string{annotationConfigTolerant: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configFilePath()
			if err != nil {
				return err
			}

			if !force {
				_, statErr := os.Stat(path)
				if statErr == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access config path %s: %w", path, statErr)
				}
			}

			if err = config.Default().Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Configuration initialized at %s\n", path)

			created, err := config.EnsureGitignore(filepath.Dir(path))
			if err != nil {
				logger.Warn().Ctx(cmd.Context()).Err(err).Msg("could not write .gitignore")
				return nil
			}
			if created {
				cmd.Printf("Created %s\n", filepath.Join(filepath.Dir(path), ".gitignore"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Prints the configuration after defaults, the config file, USERFEED_* variables and flags are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file location",
		Annotations: map[string]string{annotationConfigTolerant: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.configFilePath()
			if err != nil {
				return err
			}
			status := "exists"
			if _, statErr := os.Stat(path); statErr != nil {
				status = "not found"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", path, status)
			return nil
		},
	}
}
