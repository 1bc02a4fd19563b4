package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry(t *testing.T) {
	entry := NewEntry("k", json.RawMessage(`{"records":[]}`), 60)

	assert.False(t, entry.IsExpired())
	assert.Greater(t, entry.Remaining(), time.Duration(0))
	assert.LessOrEqual(t, entry.Age(), time.Second)

	encoded, err := json.Marshal(entry)
	require.NoError(t, err)
	var decoded Entry
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, entry.Key, decoded.Key)
	assert.JSONEq(t, string(entry.Data), string(decoded.Data))
	assert.Equal(t, entry.ExpiresAt.Format(time.RFC3339), decoded.ExpiresAt.Format(time.RFC3339))

	entry.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, entry.IsExpired())
	assert.Equal(t, time.Duration(0), entry.Remaining())
}

func TestGenerateKey(t *testing.T) {
	base := PageKey{BaseURL: "https://randomuser.me", Seed: "rencas", PageSize: 10, MaxPages: 3, Page: 1}

	k1, err := GenerateKey(base)
	require.NoError(t, err)
	assert.Len(t, k1, 64)

	same := base
	same.BaseURL = " HTTPS://RandomUser.me/ "
	k2, err := GenerateKey(same)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	other := base
	other.Page = 2
	k3, err := GenerateKey(other)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	seed := base
	seed.Seed = "RENCAS"
	k4, err := GenerateKey(seed)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4, "seed is case sensitive")

	_, err = GenerateKey(PageKey{})
	require.ErrorIs(t, err, ErrInvalidCacheKey)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, 60)
	require.NoError(t, err)
	assert.True(t, store.Enabled())
	assert.Equal(t, dir, store.Dir())
	assert.Equal(t, 60, store.TTL())

	_, err = store.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("page-1", json.RawMessage(`{"token":1}`)))
	entry, err := store.Get("page-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":1}`, string(entry.Data))

	require.NoError(t, store.Set("a/b:c", json.RawMessage(`1`)))
	_, err = os.Stat(filepath.Join(dir, "a_b_c.json"))
	require.NoError(t, err)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Zero(t, stats.Expired)
	assert.Positive(t, stats.Bytes)

	require.NoError(t, store.Delete("page-1"))
	require.NoError(t, store.Delete("page-1"))
	_, err = store.Get("page-1")
	require.ErrorIs(t, err, ErrNotFound)

	n, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.Get("")
	require.ErrorIs(t, err, ErrInvalidCacheKey)
}

func TestFileStore_Expiry(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, 60)
	require.NoError(t, err)

	stale := NewEntry("old", json.RawMessage(`{}`), 60)
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	raw, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.json"), raw, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old2.json"), raw, 0o600))
	require.NoError(t, store.Set("fresh", json.RawMessage(`{}`)))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, 2, stats.Expired)

	_, err = store.Get("old")
	require.ErrorIs(t, err, ErrExpired)
	_, err = os.Stat(filepath.Join(dir, "old.json"))
	assert.True(t, os.IsNotExist(err))

	removed, err := store.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get("fresh")
	require.NoError(t, err)
}

func TestFileStore_Disabled(t *testing.T) {
	store, err := NewFileStore("", false, 60)
	require.NoError(t, err)
	assert.False(t, store.Enabled())

	_, err = store.Get("k")
	require.ErrorIs(t, err, ErrDisabled)
	require.ErrorIs(t, store.Set("k", nil), ErrDisabled)
	_, err = store.Clear()
	require.ErrorIs(t, err, ErrDisabled)
	_, err = store.Stats()
	require.ErrorIs(t, err, ErrDisabled)

	_, err = NewFileStore("", true, 60)
	require.Error(t, err)
}

func TestParseTTL(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3600", 3600, false},
		{"1h30m", 5400, false},
		{"30s", 0, true},
		{"8d", 0, true},
		{"soon", 0, true},
		{"700000", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTTL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvTTLSeconds, "120")
	t.Setenv(EnvCacheEnabled, "false")
	t.Setenv(EnvCacheDir, "/tmp/uf-cache/")

	assert.Equal(t, 120, TTLFromEnv(DefaultTTLSeconds))
	assert.False(t, EnabledFromEnv(true))
	assert.Equal(t, "/tmp/uf-cache", DirFromEnv("fallback"))

	t.Setenv(EnvTTLSeconds, "5")
	t.Setenv(EnvCacheEnabled, "maybe")
	t.Setenv(EnvCacheDir, "")
	assert.Equal(t, DefaultTTLSeconds, TTLFromEnv(DefaultTTLSeconds))
	assert.True(t, EnabledFromEnv(true))
	assert.Equal(t, "fallback", DirFromEnv("fallback"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45s", FormatDuration(45*time.Second))
	assert.Equal(t, "30m", FormatDuration(30*time.Minute))
	assert.Equal(t, "1h", FormatDuration(time.Hour))
	assert.Equal(t, "1h30m", FormatDuration(90*time.Minute))
	assert.Equal(t, "2d", FormatDuration(48*time.Hour))
	assert.Equal(t, "2d3h", FormatDuration(51*time.Hour))
}
