package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the configuration directory.
const EnvHome = "USERFEED_HOME"

const fileName = "config.yaml"

// Dir returns the userfeed configuration directory: $USERFEED_HOME, or
// ~/.userfeed.
func Dir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".userfeed"), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// LogPath returns the default log file used while the TUI owns the terminal.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "userfeed.log"), nil
}
