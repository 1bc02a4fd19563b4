package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Entry is one cached page payload plus its expiry metadata.
type Entry struct {
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	TTLSeconds int             `json:"ttl_seconds"`
}

// NewEntry stamps data with the current time and a ttlSeconds expiry.
func NewEntry(key string, data json.RawMessage, ttlSeconds int) *Entry {
	now := time.Now()
	return &Entry{
		Key:        key,
		Data:       data,
		CreatedAt:  now,
		ExpiresAt:  now.Add(time.Duration(ttlSeconds) * time.Second),
		TTLSeconds: ttlSeconds,
	}
}

// IsExpired reports whether the entry is past its expiry.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age returns how long ago the entry was written.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// Remaining returns the time left before expiry, or 0.
func (e *Entry) Remaining() time.Duration {
	return max(time.Until(e.ExpiresAt), 0)
}

type entryAlias Entry

type entryJSON struct {
	*entryAlias

	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

// MarshalJSON writes timestamps as RFC3339 so cache files stay readable.
func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(&entryJSON{
		entryAlias: (*entryAlias)(e),
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		ExpiresAt:  e.ExpiresAt.Format(time.RFC3339),
	})
}

// UnmarshalJSON parses the RFC3339 timestamps written by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("cannot unmarshal into nil Entry")
	}
	aux := &entryJSON{entryAlias: (*entryAlias)(e)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	var err error
	if e.CreatedAt, err = time.Parse(time.RFC3339, aux.CreatedAt); err != nil {
		return err
	}
	if e.ExpiresAt, err = time.Parse(time.RFC3339, aux.ExpiresAt); err != nil {
		return err
	}
	return nil
}
