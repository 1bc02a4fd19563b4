package feed

import (
	"context"
	"fmt"
	"strings"
)

// FirstPage is the token of the first page of any feed.
const FirstPage = 1

// UserRecord is a single user as returned by the remote source.
// Email is the identity key; records are never mutated after fetch.
type UserRecord struct {
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Country      string `json:"country"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// Page is one page of records returned by a Source.
type Page struct {
	Records []UserRecord `json:"records"`
	// Token is the page number that was requested.
	Token int `json:"token"`
	// NextToken is the page to request next; meaningful only when HasMore.
	NextToken int  `json:"nextToken,omitempty"`
	HasMore   bool `json:"hasMore"`
}

// Source fetches a single page of users.
type Source interface {
	FetchPage(ctx context.Context, token int) (Page, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, token int) (Page, error)

// FetchPage implements Source.
func (f SourceFunc) FetchPage(ctx context.Context, token int) (Page, error) {
	return f(ctx, token)
}

// SortKey selects the field the projection orders by.
type SortKey int

const (
	// SortNone keeps fetch order.
	SortNone SortKey = iota
	// SortCountry orders by country.
	SortCountry
	// SortFirstName orders by first name.
	SortFirstName
	// SortLastName orders by last name.
	SortLastName
)

// numSortKeys is the number of SortKey values, used for cycling.
const numSortKeys = 4

var sortKeyNames = [numSortKeys]string{"none", "country", "first", "last"} //nolint:gochecknoglobals // lookup table

// String returns the flag/config name of the key.
func (k SortKey) String() string {
	if k < 0 || int(k) >= numSortKeys {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
	return sortKeyNames[k]
}

// Next returns the following sort key, wrapping around to SortNone.
func (k SortKey) Next() SortKey {
	return (k + 1) % numSortKeys
}

// ParseSortKey parses a sort key name. Accepted aliases: "" (none),
// "name"/"first_name" (first), "last_name"/"surname" (last).
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "country":
		return SortCountry, nil
	case "first", "name", "first_name", "firstname":
		return SortFirstName, nil
	case "last", "last_name", "lastname", "surname":
		return SortLastName, nil
	default:
		return SortNone, fmt.Errorf("%w: %q (valid: none, country, first, last)", ErrInvalidSortKey, s)
	}
}

// field returns the attribute of u selected by k.
func (k SortKey) field(u UserRecord) string {
	switch k {
	case SortCountry:
		return u.Country
	case SortFirstName:
		return u.FirstName
	case SortLastName:
		return u.LastName
	default:
		return ""
	}
}
