package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"

	"github.com/rshade/userfeed/internal/feed"
)

// Defaults for the randomuser.me list endpoint.
const (
	DefaultBaseURL  = "https://randomuser.me"
	DefaultSeed     = "rencas"
	DefaultPageSize = 10
	DefaultMaxPages = 3

	listPath      = "/api/"
	includeFields = "name,email,location,picture"
	userAgent     = "userfeed/1.0"

	// maxErrorBody bounds how much of a failed response body ends up in errors.
	maxErrorBody = 512
)

// Options configures a RandomUser source.
type Options struct {
	BaseURL  string
	Seed     string
	PageSize int
	// MaxPages is the page ceiling; 0 disables it.
	MaxPages      int
	Nationalities []string
	HTTPClient    *http.Client
	Logger        zerolog.Logger
}

// RandomUser fetches pages of users from a randomuser.me compatible API.
type RandomUser struct {
	endpoint      string
	seed          string
	pageSize      int
	maxPages      int
	nationalities string
	client        *http.Client
	logger        zerolog.Logger
}

// listQuery is encoded into the request query string.
type listQuery struct {
	Results int    `url:"results"`
	Seed    string `url:"seed,omitempty"`
	Page    int    `url:"page"`
	Nat     string `url:"nat,omitempty"`
	Inc     string `url:"inc,omitempty"`
}

// listResponse is the subset of the API response userfeed reads.
type listResponse struct {
	Info struct {
		Seed    string `json:"seed"`
		Results int    `json:"results"`
		Page    int    `json:"page"`
		Version string `json:"version"`
	} `json:"info"`
	Results []apiUser `json:"results"`
	Error   string    `json:"error"`
}

type apiUser struct {
	Email string `json:"email"`
	Name  struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"name"`
	Location struct {
		Country string `json:"country"`
	} `json:"location"`
	Picture struct {
		Thumbnail string `json:"thumbnail"`
	} `json:"picture"`
}

func (u apiUser) record() feed.UserRecord {
	return feed.UserRecord{
		Email:        u.Email,
		FirstName:    u.Name.First,
		LastName:     u.Name.Last,
		Country:      u.Location.Country,
		ThumbnailURL: u.Picture.Thumbnail,
	}
}

// NewRandomUser validates opts and returns a source. Empty fields take the
// package defaults; MaxPages is used as given.
func NewRandomUser(opts Options) (*RandomUser, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, base)
	}

	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, pageSize)
	}
	if opts.MaxPages < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxPages, opts.MaxPages)
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &RandomUser{
		endpoint:      strings.TrimRight(parsed.String(), "/") + listPath,
		seed:          opts.Seed,
		pageSize:      pageSize,
		maxPages:      opts.MaxPages,
		nationalities: strings.ToLower(strings.Join(opts.Nationalities, ",")),
		client:        client,
		logger:        opts.Logger,
	}, nil
}

// PageSize returns the number of records requested per page.
func (r *RandomUser) PageSize() int {
	return r.pageSize
}

// MaxPages returns the page ceiling (0 when unlimited).
func (r *RandomUser) MaxPages() int {
	return r.maxPages
}

// Seed returns the reproducibility seed sent with every request.
func (r *RandomUser) Seed() string {
	return r.seed
}

// Endpoint returns the list endpoint URL without query parameters.
func (r *RandomUser) Endpoint() string {
	return r.endpoint
}

// Nationalities returns the comma separated nationality filter, if any.
func (r *RandomUser) Nationalities() string {
	return r.nationalities
}

// FetchPage requests page token. It performs exactly one HTTP call and
// never retries. Any transport, status or decoding failure matches
// ErrRequestFailed.
func (r *RandomUser) FetchPage(ctx context.Context, token int) (feed.Page, error) {
	if token < feed.FirstPage {
		return feed.Page{}, fmt.Errorf("%w: got %d", ErrInvalidToken, token)
	}

	reqURL, err := r.pageURL(token)
	if err != nil {
		return feed.Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return feed.Page{}, fmt.Errorf("%w: building request: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	r.logger.Debug().Ctx(ctx).Str("url", reqURL).Int("token", token).Msg("requesting page")

	resp, err := r.client.Do(req)
	if err != nil {
		return feed.Page{}, fmt.Errorf("%w: page %d: %w", ErrRequestFailed, token, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return feed.Page{}, &StatusError{Page: token, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var body listResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return feed.Page{}, fmt.Errorf("%w: page %d: decoding response: %w", ErrRequestFailed, token, err)
	}
	if body.Error != "" {
		return feed.Page{}, fmt.Errorf("%w: page %d: %s", ErrRequestFailed, token, body.Error)
	}

	return r.toPage(token, body), nil
}

func (r *RandomUser) pageURL(token int) (string, error) {
	values, err := query.Values(listQuery{
		Results: r.pageSize,
		Seed:    r.seed,
		Page:    token,
		Nat:     r.nationalities,
		Inc:     includeFields,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding query: %w", ErrRequestFailed, err)
	}
	return r.endpoint + "?" + values.Encode(), nil
}

func (r *RandomUser) toPage(token int, body listResponse) feed.Page {
	records := make([]feed.UserRecord, len(body.Results))
	for i, u := range body.Results {
		records[i] = u.record()
	}

	page := feed.Page{Records: records, Token: token}
	if r.hasNext(token, len(records)) {
		page.HasMore = true
		page.NextToken = token + 1
	}
	return page
}

// hasNext applies the ceiling policy: no next token once the following page
// would exceed MaxPages, or when the upstream returned nothing.
func (r *RandomUser) hasNext(token, got int) bool {
	if got == 0 {
		return false
	}
	if r.maxPages == 0 {
		return true
	}
	return token < r.maxPages
}

// StatusError reports a non-2xx response. It matches ErrRequestFailed.
type StatusError struct {
	Page       int
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: page %d: http %d", ErrRequestFailed, e.Page, e.StatusCode)
	}
	return fmt.Sprintf("%s: page %d: http %d: %s", ErrRequestFailed, e.Page, e.StatusCode, e.Body)
}

// Is makes errors.Is(err, ErrRequestFailed) hold.
func (e *StatusError) Is(target error) bool {
	return target == ErrRequestFailed
}
