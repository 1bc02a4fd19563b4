package cli_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/rshade/userfeed/internal/cli"
)

var (
	testCountries  = []string{"Spain", "France", "Germany"}
	testFirstNames = []string{"Zoé", "Álvaro", "Emma", "Bruno", "Chloé"}
)

// userAPI is a randomuser-shaped test server. Pages listed in failPages
// answer 500.
type userAPI struct {
	mu        sync.Mutex
	hits      int
	failPages map[int]bool
	srv       *httptest.Server
}

func newUserAPI(t *testing.T) *userAPI {
	t.Helper()
	api := &userAPI{failPages: map[int]bool{}}
	api.srv = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.srv.Close)
	return api
}

func (a *userAPI) serve(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	n, _ := strconv.Atoi(r.URL.Query().Get("results"))

	a.mu.Lock()
	a.hits++
	fail := a.failPages[page]
	a.mu.Unlock()

	if fail {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprint(w, `{"results":[`)
	for i := range n {
		if i > 0 {
			_, _ = fmt.Fprint(w, ",")
		}
		_, _ = fmt.Fprintf(w, `{"email":"p%d-u%d@example.com","name":{"first":%q,"last":"L%d"},`+
			`"location":{"country":%q},"picture":{"thumbnail":"https://img/%d.jpg"}}`,
			page, i, testFirstNames[i%len(testFirstNames)], i, testCountries[i%len(testCountries)], i)
	}
	_, _ = fmt.Fprintf(w, `],"info":{"seed":"test","results":%d,"page":%d,"version":"1.4"}}`, n, page)
}

func (a *userAPI) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hits
}

func (a *userAPI) failPage(page int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failPages[page] = true
}

// setupCLITest isolates the userfeed home and keeps output plain and quiet.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("USERFEED_HOME", home)
	t.Setenv("USERFEED_LOG_LEVEL", "error")
	t.Setenv("NO_COLOR", "1")
	return home
}

// execute runs the root command and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
