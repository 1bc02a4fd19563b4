package feed

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLanguage is the collation locale used by Project.
var DefaultLanguage = language.English //nolint:gochecknoglobals // default locale, overridable per Projector

// Projector filters and sorts records using the collation rules of Lang.
// The zero value collates with language.Und (root collation).
type Projector struct {
	Lang language.Tag
}

// NewProjector returns a projector for the given BCP 47 locale. An
// unparsable locale falls back to DefaultLanguage.
func NewProjector(locale string) Projector {
	if locale == "" {
		return Projector{Lang: DefaultLanguage}
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Projector{Lang: DefaultLanguage}
	}
	return Projector{Lang: tag}
}

// Project filters records whose country contains filter (case-insensitive)
// and, unless key is SortNone, stably sorts them by the selected field using
// DefaultLanguage collation.
func Project(records []UserRecord, filter string, key SortKey) []UserRecord {
	return Projector{Lang: DefaultLanguage}.Project(records, filter, key)
}

// Project filters and sorts records. The input slice is never modified; the
// result is a new slice unless no filtering or sorting was needed.
func (p Projector) Project(records []UserRecord, filter string, key SortKey) []UserRecord {
	filtered := FilterByCountry(records, filter)
	if key == SortNone || len(filtered) < 2 {
		return filtered
	}

	sorted := make([]UserRecord, len(filtered))
	copy(sorted, filtered)

	// Collators keep internal buffers, so each projection gets its own.
	c := collate.New(p.Lang)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(key.field(sorted[i]), key.field(sorted[j])) < 0
	})
	return sorted
}

// FilterByCountry keeps records whose country contains filter, ignoring case.
// An empty filter returns records unchanged.
func FilterByCountry(records []UserRecord, filter string) []UserRecord {
	if filter == "" {
		return records
	}

	query := strings.ToLower(filter)
	filtered := make([]UserRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Country), query) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
