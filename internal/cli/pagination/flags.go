package pagination

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Flag defaults and bounds.
const (
	DefaultLimit  = 0
	DefaultOffset = 0
	MaxLimit      = 10000
)

// Validation errors.
var (
	ErrInvalidLimit  = fmt.Errorf("limit must be between 0 and %d", MaxLimit)
	ErrInvalidOffset = errors.New("offset must be non-negative")
)

// Params holds the --limit and --offset flags. A zero Limit means no limit.
type Params struct {
	Limit  int
	Offset int
}

// AddFlags registers --limit and --offset on cmd.
func (p *Params) AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.Limit, "limit", DefaultLimit, "maximum number of users to print (0 = all)")
	cmd.Flags().IntVar(&p.Offset, "offset", DefaultOffset, "number of users to skip")
}

// Validate checks the bounds of p.
func (p Params) Validate() error {
	if p.Limit < 0 || p.Limit > MaxLimit {
		return fmt.Errorf("%w: got %d", ErrInvalidLimit, p.Limit)
	}
	if p.Offset < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidOffset, p.Offset)
	}
	return nil
}

// IsEnabled reports whether either flag narrows the output.
func (p Params) IsEnabled() bool {
	return p.Limit > 0 || p.Offset > 0
}

// Apply returns the window of items selected by p. The result aliases items.
func Apply[T any](p Params, items []T) []T {
	if p.Offset >= len(items) {
		return items[:0:0]
	}
	end := len(items)
	if p.Limit > 0 {
		end = min(p.Offset+p.Limit, end)
	}
	return items[p.Offset:end]
}
