package source

import "errors"

// ErrRequestFailed is the single failure kind of a page fetch: transport
// errors, non-success statuses and undecodable bodies all match it.
var ErrRequestFailed = errors.New("request failed")

// Validation errors.
var (
	ErrInvalidToken    = errors.New("page token must be >= 1")
	ErrInvalidBaseURL  = errors.New("invalid base URL")
	ErrInvalidPageSize = errors.New("page size must be positive")
	ErrInvalidMaxPages = errors.New("max pages must be >= 0")
)
