package feed

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Phase is the accumulator's position in its state machine.
type Phase int

const (
	// PhaseIdle means nothing has been fetched yet.
	PhaseIdle Phase = iota
	// PhaseLoading means a fetch is outstanding.
	PhaseLoading
	// PhaseLoaded means the last fetch succeeded.
	PhaseLoaded
	// PhaseFailed means the last fetch failed; only a reset leaves it.
	PhaseFailed
)

// String returns a lowercase phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the accumulator. Records is shared with the
// accumulator and must be treated as read-only.
type State struct {
	Records []UserRecord
	// NextToken is the page FetchNextPage will request; zero once exhausted.
	NextToken int
	HasMore   bool
	Loading   bool
	Err       error
	Phase     Phase
	// Pages counts the pages merged since the last first-page load.
	Pages int
	// Version increases every time Records changes.
	Version uint64
}

// Failed reports whether the last fetch failed.
func (s State) Failed() bool {
	return s.Err != nil
}

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithLogger sets the logger used for fetch lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Accumulator) {
		a.logger = logger
	}
}

// WithObserver registers fn to receive a snapshot after every transition.
func WithObserver(fn func(State)) Option {
	return func(a *Accumulator) {
		a.observers = append(a.observers, fn)
	}
}

// Accumulator gathers pages from a Source into a single ordered record list.
type Accumulator struct {
	source    Source
	logger    zerolog.Logger
	observers []func(State)

	mu    sync.Mutex
	state State
	epoch uint64
}

// NewAccumulator returns an idle accumulator reading from source.
func NewAccumulator(source Source, opts ...Option) *Accumulator {
	a := &Accumulator{
		source: source,
		logger: zerolog.Nop(),
		state: State{
			NextToken: FirstPage,
			HasMore:   true,
			Phase:     PhaseIdle,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current snapshot.
func (a *Accumulator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Fetch is a started fetch. Run performs the network call and merges the
// result, unless a Reset superseded it in the meantime. A Fetch runs at
// most once.
type Fetch struct {
	acc     *Accumulator
	epoch   uint64
	token   int
	replace bool
	ran     bool
}

// Token returns the page the fetch will request.
func (f *Fetch) Token() int {
	return f.token
}

// Run fetches the page and applies the outcome. It returns the state after
// the outcome was applied, or the current state if the result was stale.
// Calls after the first return the current state without fetching.
func (f *Fetch) Run(ctx context.Context) State {
	a := f.acc
	a.mu.Lock()
	if f.ran {
		snap := a.snapshotLocked()
		a.mu.Unlock()
		a.logger.Debug().Ctx(ctx).Int("token", f.token).Msg("fetch already ran")
		return snap
	}
	f.ran = true
	a.mu.Unlock()

	page, err := a.source.FetchPage(ctx, f.token)
	return f.acc.complete(ctx, f, page, err)
}

// StartFirstPage moves to Loading for a first-page fetch. It returns false
// when a fetch is already outstanding.
func (a *Accumulator) StartFirstPage() (*Fetch, bool) {
	a.mu.Lock()
	if a.state.Loading {
		a.mu.Unlock()
		a.logger.Debug().Msg("first page ignored: fetch in flight")
		return nil, false
	}
	f := a.beginLocked(FirstPage, true)
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(snap)
	return f, true
}

// StartNextPage moves to Loading for the next page. It returns false when a
// fetch is outstanding, the feed is exhausted, or the last fetch failed.
func (a *Accumulator) StartNextPage() (*Fetch, bool) {
	a.mu.Lock()
	switch {
	case a.state.Loading:
		a.mu.Unlock()
		a.logger.Debug().Msg("next page ignored: fetch in flight")
		return nil, false
	case a.state.Err != nil:
		a.mu.Unlock()
		a.logger.Debug().Msg("next page ignored: feed failed, reset required")
		return nil, false
	case !a.state.HasMore:
		a.mu.Unlock()
		a.logger.Debug().Msg("next page ignored: feed exhausted")
		return nil, false
	}
	f := a.beginLocked(a.state.NextToken, a.state.Phase == PhaseIdle)
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(snap)
	return f, true
}

// StartReset moves to Loading for a first-page fetch regardless of any
// outstanding fetch, whose result will be discarded.
func (a *Accumulator) StartReset() *Fetch {
	a.mu.Lock()
	if a.state.Loading {
		a.logger.Debug().Uint64("epoch", a.epoch).Msg("reset supersedes in-flight fetch")
	}
	f := a.beginLocked(FirstPage, true)
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(snap)
	return f
}

// FetchFirstPage loads page one, replacing accumulated records on success.
// It returns false without fetching when a fetch is already outstanding.
func (a *Accumulator) FetchFirstPage(ctx context.Context) bool {
	f, ok := a.StartFirstPage()
	if !ok {
		return false
	}
	f.Run(ctx)
	return true
}

// FetchNextPage loads the next page and appends it. It returns false
// without fetching when loading, exhausted or failed.
func (a *Accumulator) FetchNextPage(ctx context.Context) bool {
	f, ok := a.StartNextPage()
	if !ok {
		return false
	}
	f.Run(ctx)
	return true
}

// Reset re-fetches the first page, replacing all accumulated state.
func (a *Accumulator) Reset(ctx context.Context) {
	a.StartReset().Run(ctx)
}

func (a *Accumulator) beginLocked(token int, replace bool) *Fetch {
	a.epoch++
	a.state.Loading = true
	a.state.Err = nil
	a.state.Phase = PhaseLoading

	a.logger.Debug().
		Int("token", token).
		Bool("replace", replace).
		Uint64("epoch", a.epoch).
		Msg("fetch started")

	return &Fetch{acc: a, epoch: a.epoch, token: token, replace: replace}
}

func (a *Accumulator) complete(ctx context.Context, f *Fetch, page Page, err error) State {
	a.mu.Lock()
	if f.epoch != a.epoch {
		current := a.epoch
		snap := a.snapshotLocked()
		a.mu.Unlock()
		a.logger.Debug().Ctx(ctx).
			Int("token", f.token).
			Uint64("fetch_epoch", f.epoch).
			Uint64("epoch", current).
			Msg("discarding stale fetch result")
		return snap
	}

	a.state.Loading = false
	if err != nil {
		a.state.Err = err
		a.state.Phase = PhaseFailed
		snap := a.snapshotLocked()
		a.mu.Unlock()

		a.logger.Warn().Ctx(ctx).Err(err).Int("token", f.token).Msg("page fetch failed")
		a.notify(snap)
		return snap
	}

	if f.replace {
		a.state.Records = append([]UserRecord(nil), page.Records...)
		a.state.Pages = 1
	} else {
		merged := make([]UserRecord, 0, len(a.state.Records)+len(page.Records))
		merged = append(merged, a.state.Records...)
		merged = append(merged, page.Records...)
		a.state.Records = merged
		a.state.Pages++
	}
	a.state.HasMore = page.HasMore
	a.state.NextToken = 0
	if page.HasMore {
		a.state.NextToken = page.NextToken
	}
	a.state.Phase = PhaseLoaded
	a.state.Version++
	snap := a.snapshotLocked()
	a.mu.Unlock()

	a.logger.Info().Ctx(ctx).
		Int("token", f.token).
		Int("page_records", len(page.Records)).
		Int("total_records", len(snap.Records)).
		Bool("has_more", snap.HasMore).
		Msg("page merged")
	a.notify(snap)
	return snap
}

func (a *Accumulator) snapshotLocked() State {
	s := a.state
	s.Records = s.Records[:len(s.Records):len(s.Records)]
	return s
}

func (a *Accumulator) notify(s State) {
	a.mu.Lock()
	observers := slices.Clone(a.observers)
	a.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}
