package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalFileName is the per-directory overlay merged over the user config.
const LocalFileName = ".userfeed.yaml"

// Top-level YAML keys that an overlay may set.
const (
	keySource  = "source"
	keyView    = "view"
	keyLogging = "logging"
	keyCache   = "cache"
	keyBreaker = "breaker"
)

// LocalPath returns the overlay location in the working directory.
func LocalPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return filepath.Join(wd, LocalFileName), nil
}

// MergeYAML applies the sections present in overlayPath onto target. Within
// a section only the keys the overlay sets change; absent sections and
// unknown top-level keys are left alone.
func MergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in MergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		dst := sectionFor(target, key)
		if dst == nil {
			continue
		}
		if err = node.Decode(dst); err != nil {
			return fmt.Errorf("applying overlay section %q from %s: %w", key, overlayPath, err)
		}
	}
	return nil
}

// sectionFor returns a pointer to the Config field for key, or nil.
func sectionFor(c *Config, key string) any {
	switch key {
	case keySource:
		return &c.Source
	case keyView:
		return &c.View
	case keyLogging:
		return &c.Logging
	case keyCache:
		return &c.Cache
	case keyBreaker:
		return &c.Breaker
	default:
		return nil
	}
}

// mergeLocal applies the working directory overlay when one exists.
func mergeLocal(c *Config) error {
	path, err := LocalPath()
	if err != nil {
		return err
	}
	if _, err = os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return MergeYAML(c, path)
}
