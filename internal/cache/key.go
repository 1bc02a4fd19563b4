package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// PageKey identifies one upstream page request.
type PageKey struct {
	BaseURL       string `json:"base_url"`
	Seed          string `json:"seed"`
	PageSize      int    `json:"page_size"`
	MaxPages      int    `json:"max_pages"`
	Nationalities string `json:"nat,omitempty"`
	Page          int    `json:"page"`
}

// GenerateKey returns a hex SHA256 digest of the normalized key.
func GenerateKey(k PageKey) (string, error) {
	if k.Page < 1 {
		return "", fmt.Errorf("%w: page %d", ErrInvalidCacheKey, k.Page)
	}
	k.BaseURL = strings.TrimRight(strings.ToLower(strings.TrimSpace(k.BaseURL)), "/")
	k.Nationalities = strings.ToLower(strings.TrimSpace(k.Nationalities))

	raw, err := json.Marshal(k)
	if err != nil {
		return "", fmt.Errorf("marshaling cache key: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
