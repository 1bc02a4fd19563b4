package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/userfeed/internal/feed"
	listview "github.com/rshade/userfeed/internal/tui/list"
)

// ViewState is the screen the browser is showing.
type ViewState int

const (
	// ViewStateList shows the user table.
	ViewStateList ViewState = iota
	// ViewStateDetail shows the selected user.
	ViewStateDetail
	// ViewStateQuitting is set just before the program exits.
	ViewStateQuitting
)

// feedStateMsg carries the accumulator state after a fetch finished.
type feedStateMsg struct {
	state feed.State
}

// ViewOptions are the initial view settings.
type ViewOptions struct {
	Locale     string
	Sort       feed.SortKey
	Country    string
	ShowColors bool
	Logger     zerolog.Logger
}

// FeedModel is the Bubble Tea model for browsing the user feed.
type FeedModel struct {
	ctx    context.Context
	acc    *feed.Accumulator
	logger zerolog.Logger

	viewState ViewState
	feedState feed.State

	memo       *feed.Memo
	exclusions *feed.Exclusions
	rows       []feed.UserRecord

	list       *listview.Model[feed.UserRecord]
	textInput  textinput.Model
	showFilter bool
	sortKey    feed.SortKey
	showColors bool
	fullHelp   bool

	loading *LoadingState
	width   int
	height  int
}

// NewFeedModel returns a browser over acc. Nothing is fetched until Init.
func NewFeedModel(ctx context.Context, acc *feed.Accumulator, opts ViewOptions) *FeedModel {
	ti := textinput.New()
	ti.Placeholder = "Filter by country..."
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	ti.SetValue(opts.Country)

	m := &FeedModel{
		ctx:        ctx,
		acc:        acc,
		logger:     opts.Logger,
		feedState:  acc.State(),
		memo:       feed.NewMemo(feed.NewProjector(opts.Locale)),
		exclusions: feed.NewExclusions(),
		textInput:  ti,
		sortKey:    opts.Sort,
		showColors: opts.ShowColors,
		loading:    NewLoadingState(),
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.list = listview.New[feed.UserRecord](nil, m.listHeight(), m.width, m.renderRow)
	m.refresh()
	return m
}

// Init starts the first page load.
func (m *FeedModel) Init() tea.Cmd {
	f, ok := m.acc.StartFirstPage()
	if !ok {
		return nil
	}
	return m.startFetch(f)
}

// Update handles messages and updates the model state.
func (m *FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(m.listHeight(), m.width)
		return m, nil
	case feedStateMsg:
		return m.handleFeedState(msg)
	}

	var spinCmd tea.Cmd
	if m.feedState.Loading {
		spinCmd = m.loading.Update(msg)
	}

	if m.showFilter {
		_, cmd := m.handleFilterInput(msg)
		return m, tea.Batch(spinCmd, cmd)
	}

	switch m.viewState {
	case ViewStateDetail:
		_, cmd := m.handleDetailUpdate(msg)
		return m, tea.Batch(spinCmd, cmd)
	case ViewStateList:
		_, cmd := m.handleListUpdate(msg)
		return m, tea.Batch(spinCmd, cmd)
	default:
		return m, spinCmd
	}
}

func (m *FeedModel) handleFeedState(msg feedStateMsg) (tea.Model, tea.Cmd) {
	// A superseded fetch may deliver after a newer one started; the
	// accumulator's current state wins.
	m.feedState = m.acc.State()
	if msg.state.Version != m.feedState.Version {
		m.logger.Debug().Ctx(m.ctx).
			Uint64("msg_version", msg.state.Version).
			Uint64("version", m.feedState.Version).
			Msg("feed message superseded")
	}
	m.refresh()
	return m, nil
}

func (m *FeedModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEnter, keyEsc:
			m.showFilter = false
			m.textInput.Blur()
			return m, nil
		case keyCtrlC:
			return m.quit()
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *FeedModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		return m.quit()
	case keyEnter:
		if m.list.Len() > 0 {
			m.viewState = ViewStateDetail
		}
		return m, nil
	case keySlash:
		m.showFilter = true
		return m, m.textInput.Focus()
	case keyEsc:
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			m.refresh()
		}
		return m, nil
	case keySort:
		m.sortKey = m.sortKey.Next()
		m.refresh()
		return m, nil
	case keyCountry:
		if m.sortKey == feed.SortCountry {
			m.sortKey = feed.SortNone
		} else {
			m.sortKey = feed.SortCountry
		}
		m.refresh()
		return m, nil
	case keyColors:
		m.showColors = !m.showColors
		return m, nil
	case keyDelete:
		if rec, ok := m.list.Selected(); ok {
			m.exclusions.Add(rec.Email)
			m.logger.Debug().Ctx(m.ctx).Str("email", rec.Email).Msg("user hidden")
			m.refresh()
		}
		return m, nil
	case keyRestore:
		m.exclusions.Clear()
		m.refresh()
		return m, nil
	case keyReset:
		return m, m.startFetch(m.acc.StartReset())
	case keyMore, keyMoreAlt:
		return m, m.loadMore()
	case keyHelpToggle:
		m.fullHelp = !m.fullHelp
		return m, nil
	}

	m.list.Update(keyMsg)
	return m, nil
}

func (m *FeedModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			return m.quit()
		case keyEsc, keyEnter:
			m.viewState = ViewStateList
		}
	}
	return m, nil
}

func (m *FeedModel) quit() (tea.Model, tea.Cmd) {
	m.viewState = ViewStateQuitting
	return m, tea.Quit
}

func (m *FeedModel) loadMore() tea.Cmd {
	f, ok := m.acc.StartNextPage()
	if !ok {
		return nil
	}
	return m.startFetch(f)
}

// startFetch marks the model as loading and returns the commands that run
// the fetch and animate the spinner.
func (m *FeedModel) startFetch(f *feed.Fetch) tea.Cmd {
	m.feedState = m.acc.State()
	m.loading.SetMessage(loadingMessage(f.Token()))
	ctx := m.ctx
	run := func() tea.Msg {
		return feedStateMsg{state: f.Run(ctx)}
	}
	return tea.Batch(run, m.loading.Init())
}

// refresh recomputes the visible rows from the accumulator snapshot.
func (m *FeedModel) refresh() {
	m.rows = m.memo.Get(m.feedState, m.textInput.Value(), m.sortKey, m.exclusions)
	m.list.SetItems(m.rows)
}

// CanLoadMore reports whether "load more" is offered.
func (m *FeedModel) CanLoadMore() bool {
	s := m.feedState
	return !s.Loading && !s.Failed() && s.HasMore
}

// Rows returns the projected rows currently displayed.
func (m *FeedModel) Rows() []feed.UserRecord {
	return m.rows
}

// FeedState returns the last accumulator snapshot the model rendered.
func (m *FeedModel) FeedState() feed.State {
	return m.feedState
}

func (m *FeedModel) listHeight() int {
	return max(m.height-chromeHeight, minHeight)
}
