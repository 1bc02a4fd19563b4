package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/userfeed/internal/cli"
)

func TestCacheWarm_ThenListReplaysFromDisk(t *testing.T) {
	home := setupCLITest(t)
	api := newUserAPI(t)
	base := []string{"--base-url", api.srv.URL, "--page-size", "4", "--max-pages", "3"}

	out, _, err := execute(t, append([]string{"cache", "warm", "--pages", "5", "--concurrency", "2"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Warmed 3 page(s), 12 users")
	assert.Equal(t, 3, api.calls(), "pages are capped by the ceiling")

	entries, err := os.ReadDir(filepath.Join(home, "cache"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	out, _, err = execute(t, append([]string{"list", "--all", "--output", "json"}, base...)...)
	require.NoError(t, err)
	doc := decodeList(t, out)
	assert.Len(t, doc.Users, 12)
	assert.Equal(t, 3, api.calls(), "list must be served from the cache")

	out, _, err = execute(t, append([]string{"cache", "stats"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:   3 (0 expired)")
	assert.Contains(t, out, "TTL:       1h")

	out, _, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 3 cached page(s)")
}

func TestCache_DifferentSeedMisses(t *testing.T) {
	setupCLITest(t)
	api := newUserAPI(t)

	_, _, err := execute(t, "list", "--base-url", api.srv.URL, "--seed", "one")
	require.NoError(t, err)
	_, _, err = execute(t, "list", "--base-url", api.srv.URL, "--seed", "one")
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls())

	_, _, err = execute(t, "list", "--base-url", api.srv.URL, "--seed", "two")
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls())
}

func TestCache_FailuresAreNotCached(t *testing.T) {
	setupCLITest(t)
	api := newUserAPI(t)
	api.failPage(1)

	_, _, err := execute(t, "list", "--base-url", api.srv.URL)
	require.Error(t, err)

	out, _, err := execute(t, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries:   0")
}

func TestCache_Disabled(t *testing.T) {
	setupCLITest(t)
	api := newUserAPI(t)

	_, _, err := execute(t, "cache", "warm", "--base-url", api.srv.URL, "--no-cache")
	require.ErrorIs(t, err, cli.ErrCacheDisabled)
	assert.Zero(t, api.calls())

	_, _, err = execute(t, "cache", "clear", "--no-cache")
	require.ErrorIs(t, err, cli.ErrCacheDisabled)

	out, _, err := execute(t, "cache", "stats", "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache: disabled")
}

func TestCacheWarm_InvalidFlags(t *testing.T) {
	setupCLITest(t)

	_, _, err := execute(t, "cache", "warm", "--pages", "0")
	require.Error(t, err)

	_, _, err = execute(t, "cache", "warm", "--concurrency", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--concurrency")
}
