package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/userfeed/internal/feed"
)

// fakeAPI serves randomuser-shaped pages and records every query it sees.
type fakeAPI struct {
	mu      sync.Mutex
	queries []map[string]string
	status  int
	body    string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	q := map[string]string{"path": r.URL.Path}
	for k := range r.URL.Query() {
		q[k] = r.URL.Query().Get(k)
	}
	f.queries = append(f.queries, q)
	status, body := f.status, f.body
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}
	if body != "" {
		_, _ = w.Write([]byte(body))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	n, _ := strconv.Atoi(r.URL.Query().Get("results"))
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprint(w, `{"results":[`)
	for i := range n {
		if i > 0 {
			_, _ = fmt.Fprint(w, ",")
		}
		_, _ = fmt.Fprintf(w, `{"email":"p%d-u%d@example.com","name":{"title":"Ms","first":"F%d","last":"L%d"},`+
			`"location":{"city":"Lyon","country":"France"},"picture":{"thumbnail":"https://img/%d.jpg"}}`,
			page, i, i, i, i)
	}
	_, _ = fmt.Fprintf(w, `],"info":{"seed":"%s","results":%d,"page":%d,"version":"1.4"}}`,
		r.URL.Query().Get("seed"), n, page)
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newTestSource(t *testing.T, api *fakeAPI, opts Options) *RandomUser {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	opts.HTTPClient = srv.Client()
	src, err := NewRandomUser(opts)
	require.NoError(t, err)
	return src
}

func TestRandomUser_FetchPage(t *testing.T) {
	api := &fakeAPI{}
	src := newTestSource(t, api, Options{Seed: "rencas", PageSize: 10, MaxPages: 3, Nationalities: []string{"FR", "es"}})

	page, err := src.FetchPage(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, page.Records, 10)
	assert.Equal(t, feed.UserRecord{
		Email:        "p1-u0@example.com",
		FirstName:    "F0",
		LastName:     "L0",
		Country:      "France",
		ThumbnailURL: "https://img/0.jpg",
	}, page.Records[0])
	assert.Equal(t, 1, page.Token)
	assert.True(t, page.HasMore)
	assert.Equal(t, 2, page.NextToken)

	require.Equal(t, 1, api.calls())
	q := api.queries[0]
	assert.Equal(t, "/api/", q["path"])
	assert.Equal(t, "10", q["results"])
	assert.Equal(t, "rencas", q["seed"])
	assert.Equal(t, "1", q["page"])
	assert.Equal(t, "fr,es", q["nat"])
	assert.Equal(t, includeFields, q["inc"])
}

func TestRandomUser_Ceiling(t *testing.T) {
	tests := []struct {
		name     string
		maxPages int
		token    int
		wantMore bool
	}{
		{"first of three", 3, 1, true},
		{"second of three", 3, 2, true},
		{"last of three", 3, 3, false},
		{"past the ceiling", 3, 4, false},
		{"single page", 1, 1, false},
		{"unlimited", 0, 50, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t, &fakeAPI{}, Options{PageSize: 2, MaxPages: tt.maxPages})
			page, err := src.FetchPage(context.Background(), tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMore, page.HasMore)
			if tt.wantMore {
				assert.Equal(t, tt.token+1, page.NextToken)
			} else {
				assert.Zero(t, page.NextToken)
			}
		})
	}
}

func TestRandomUser_EmptyPageEndsFeed(t *testing.T) {
	api := &fakeAPI{body: `{"results":[],"info":{"page":2}}`}
	src := newTestSource(t, api, Options{MaxPages: 0})

	page, err := src.FetchPage(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.False(t, page.HasMore)
}

func TestRandomUser_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"service unavailable", http.StatusServiceUnavailable, ""},
		{"malformed json", 0, `{"results":[`},
		{"api error field", 0, `{"error":"Uh oh, something has gone wrong."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestSource(t, &fakeAPI{status: tt.status, body: tt.body}, Options{})
			_, err := src.FetchPage(context.Background(), 1)
			require.ErrorIs(t, err, ErrRequestFailed)
		})
	}
}

func TestRandomUser_StatusError(t *testing.T) {
	src := newTestSource(t, &fakeAPI{status: http.StatusBadGateway, body: " upstream down \n"}, Options{})

	_, err := src.FetchPage(context.Background(), 2)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, 2, statusErr.Page)
	assert.Equal(t, "upstream down", statusErr.Body)
	assert.Contains(t, err.Error(), "http 502")
}

func TestRandomUser_TransportError(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	srv.Close()

	src, err := NewRandomUser(Options{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = src.FetchPage(context.Background(), 1)
	require.ErrorIs(t, err, ErrRequestFailed)
}

func TestRandomUser_InvalidTokenMakesNoCall(t *testing.T) {
	api := &fakeAPI{}
	src := newTestSource(t, api, Options{})

	_, err := src.FetchPage(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidToken)
	assert.Zero(t, api.calls())
}

func TestRandomUser_CanceledContext(t *testing.T) {
	src := newTestSource(t, &fakeAPI{}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.FetchPage(ctx, 1)
	require.ErrorIs(t, err, ErrRequestFailed)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRandomUser_Validation(t *testing.T) {
	_, err := NewRandomUser(Options{BaseURL: "not a url"})
	require.ErrorIs(t, err, ErrInvalidBaseURL)

	_, err = NewRandomUser(Options{PageSize: -1})
	require.ErrorIs(t, err, ErrInvalidPageSize)

	_, err = NewRandomUser(Options{MaxPages: -1})
	require.ErrorIs(t, err, ErrInvalidMaxPages)

	src, err := NewRandomUser(Options{BaseURL: "https://example.test/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/api/", src.Endpoint())
	assert.Equal(t, DefaultPageSize, src.PageSize())
	assert.Zero(t, src.MaxPages())
}

func TestRandomUser_DrivesAccumulator(t *testing.T) {
	src := newTestSource(t, &fakeAPI{}, Options{PageSize: 10, MaxPages: 3})
	acc := feed.NewAccumulator(src)
	ctx := context.Background()

	acc.FetchFirstPage(ctx)
	for acc.FetchNextPage(ctx) {
	}

	state := acc.State()
	assert.Len(t, state.Records, 30)
	assert.False(t, state.HasMore)
	assert.Equal(t, "p3-u9@example.com", state.Records[29].Email)
}
