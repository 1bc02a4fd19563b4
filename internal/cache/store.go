package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const entryExt = ".json"

// Cache errors.
var (
	ErrNotFound        = errors.New("cache entry not found")
	ErrExpired         = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("invalid cache key")
	ErrDisabled        = errors.New("cache is disabled")
)

// FileStore keeps one JSON file per entry in a directory. It is safe for
// concurrent use within a process.
type FileStore struct {
	dir        string
	enabled    bool
	ttlSeconds int

	mu sync.RWMutex
}

// Stats summarizes the on-disk state of a store.
type Stats struct {
	Directory  string
	Entries    int
	Expired    int
	Bytes      int64
	TTLSeconds int
}

// NewFileStore opens (creating if needed) a store rooted at dir. A disabled
// store never touches the filesystem and every call returns ErrDisabled.
func NewFileStore(dir string, enabled bool, ttlSeconds int) (*FileStore, error) {
	if !enabled {
		return &FileStore{}, nil
	}
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{dir: dir, enabled: true, ttlSeconds: ttlSeconds}, nil
}

// Enabled reports whether the store is active.
func (s *FileStore) Enabled() bool {
	return s.enabled
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// TTL returns the TTL applied to new entries, in seconds.
func (s *FileStore) TTL() int {
	return s.ttlSeconds
}

// Get returns the entry for key. Expired entries are removed and reported
// as ErrExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	path := s.path(key)
	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decoding cache entry: %w", err)
	}

	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return &entry, nil
}

// Set writes data under key, replacing any previous entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	encoded, err := json.MarshalIndent(NewEntry(key, data, s.ttlSeconds), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, encoded, 0o600); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Delete removes key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (s *FileStore) Clear() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.entryNames()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, name := range names {
		if err = os.Remove(filepath.Join(s.dir, name)); err != nil {
			return removed, fmt.Errorf("removing cache file %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// CleanupExpired removes expired entries and returns how many were deleted.
// Unreadable files are skipped.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.enabled {
		return 0, ErrDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.entryNames()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		entry, readErr := readEntry(path)
		if readErr != nil || !entry.IsExpired() {
			continue
		}
		if os.Remove(path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Stats walks the directory and reports entry counts and total size.
func (s *FileStore) Stats() (Stats, error) {
	if !s.enabled {
		return Stats{}, ErrDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.entryNames()
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Directory: s.dir, TTLSeconds: s.ttlSeconds}
	for _, name := range names {
		path := filepath.Join(s.dir, name)
		info, statErr := os.Stat(path)
		if statErr != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()
		if entry, readErr := readEntry(path); readErr == nil && entry.IsExpired() {
			st.Expired++
		}
	}
	return st, nil
}

func (s *FileStore) entryNames() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	var names []string
	for _, de := range dirEntries {
		if !de.IsDir() && filepath.Ext(de.Name()) == entryExt {
			names = append(names, de.Name())
		}
	}
	return names, nil
}

var keySanitizer = strings.NewReplacer("/", "_", "\\", "_", ":", "_")

// path maps a key to its file. GenerateKey yields hex; hand-made keys only
// need path separators scrubbed.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, keySanitizer.Replace(key)+entryExt)
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
