package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/userfeed/internal/config"
)

func TestConfigInit_CreatesFileAndGitignore(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")
	assert.FileExists(t, filepath.Join(home, "config.yaml"))
	assert.FileExists(t, filepath.Join(home, ".gitignore"))

	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Source, cfg.Source)

	_, _, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigInit_ExplicitPath(t *testing.T) {
	setupCLITest(t)
	path := filepath.Join(t.TempDir(), "custom", "feed.yaml")

	_, _, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	out, _, err := execute(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+" (exists)\n", out)
}

func TestConfigShow_ReflectsFlagsOverFile(t *testing.T) {
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("source:\n  seed: fromfile\n  page_size: 25\n"), 0o600))

	out, _, err := execute(t, "config", "show", "--seed", "fromflag")
	require.NoError(t, err)
	assert.Contains(t, out, "seed: fromflag")
	assert.Contains(t, out, "page_size: 25")
}

func TestConfig_BrokenFileTolerantCommands(t *testing.T) {
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("source: [oops"), 0o600))

	out, errOut, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "(exists)")
	assert.Contains(t, errOut, "Warning: ignoring configuration")

	_, _, err = execute(t, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")

	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
	_, _, err = execute(t, "config", "show")
	require.NoError(t, err)
}

func TestConfigPath_Missing(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.yaml")+" (not found)\n", out)
}

func TestConfig_FlagRepairsInvalidFileValue(t *testing.T) {
	home := setupCLITest(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("source:\n  page_size: 0\n"), 0o600))

	_, _, err := execute(t, "config", "show")
	require.ErrorIs(t, err, config.ErrInvalidPageSize)

	out, _, err := execute(t, "config", "show", "--page-size", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "page_size: 5")
}
