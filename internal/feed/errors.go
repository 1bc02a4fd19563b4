package feed

import "errors"

// ErrInvalidSortKey is returned by ParseSortKey for unknown names.
var ErrInvalidSortKey = errors.New("invalid sort key")
