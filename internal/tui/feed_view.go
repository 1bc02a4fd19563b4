package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rshade/userfeed/internal/feed"
)

const ellipsis = "…"

// View renders the current screen.
func (m *FeedModel) View() string {
	switch m.viewState {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		if rec, ok := m.list.Selected(); ok {
			return RenderUserDetail(rec, m.width)
		}
		return m.renderListView()
	default:
		return m.renderListView()
	}
}

func (m *FeedModel) renderListView() string {
	s := m.feedState
	title := HeaderStyle.Render("USERS")

	// Nothing to show yet: the whole body is the loading or error message.
	if len(s.Records) == 0 {
		switch {
		case s.Loading:
			return lipgloss.JoinVertical(lipgloss.Left, title, RenderLoading(m.loading), m.renderHelp())
		case s.Failed():
			return lipgloss.JoinVertical(lipgloss.Left, title, renderError(s.Err), m.renderHelp())
		}
	}

	var body string
	if len(m.rows) == 0 {
		body = InfoStyle.Render(emptyMessage(s, m.textInput.Value()))
	} else {
		body = TableHeaderStyle.Render(formatColumns("First", "Last", "Country", "Email")) + "\n" + m.list.View()
	}

	parts := []string{title, body, m.renderStatus()}
	if s.Loading {
		parts = append(parts, m.loading.View())
	}
	if s.Failed() {
		parts = append(parts, renderError(s.Err))
	}
	if m.showFilter {
		parts = append(parts, "Filter: "+m.textInput.View())
	}
	parts = append(parts, m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *FeedModel) renderStatus() string {
	s := m.feedState
	status := fmt.Sprintf("%d of %d users · %d page(s) · sort: %s", len(m.rows), len(s.Records), s.Pages, m.sortKey)
	if f := m.textInput.Value(); f != "" && !m.showFilter {
		status += fmt.Sprintf(" · country ~ %q", f)
	}
	if n := m.exclusions.Len(); n > 0 {
		status += fmt.Sprintf(" · %d hidden", n)
	}
	if !s.HasMore && s.Phase != feed.PhaseIdle {
		status += " · end of feed"
	}
	return SubtleStyle.Render(status)
}

func (m *FeedModel) renderHelp() string {
	var keys []string
	if m.CanLoadMore() {
		keys = append(keys, "[m] Load more")
	}
	keys = append(keys, "[/] Filter", "[s] Sort", "[o] Country sort", "[r] Reset", "[q] Quit")
	if m.fullHelp {
		keys = append(keys,
			"[↑↓/jk] Navigate", "[Enter] Details", "[d] Hide user",
			"[u] Restore hidden", "[c] Colors", "[Esc] Clear filter", "[?] Less")
	} else {
		keys = append(keys, "[?] More")
	}
	return SubtleStyle.Render(strings.Join(keys, "  "))
}

// renderRow formats one user line. With colors on, odd rows are striped.
func (m *FeedModel) renderRow(u feed.UserRecord, index int, selected bool) string {
	row := formatColumns(u.FirstName, u.LastName, u.Country, u.Email)
	switch {
	case selected:
		return TableSelectedStyle.Render(row)
	case m.showColors && index%2 == 1:
		return StripeStyle.Render(row)
	default:
		return row
	}
}

func formatColumns(first, last, country, email string) string {
	return strings.Join([]string{
		fit(first, colWidthFirst),
		fit(last, colWidthLast),
		fit(country, colWidthCountry),
		fit(email, colWidthEmail),
	}, "  ")
}

// fit truncates or pads s to exactly width terminal cells.
func fit(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ellipsis), width)
}

func emptyMessage(s feed.State, filter string) string {
	switch {
	case len(s.Records) == 0:
		return "No users."
	case filter != "":
		return fmt.Sprintf("No users match country %q.", filter)
	default:
		return "All users are hidden. Press u to restore them."
	}
}

func renderError(err error) string {
	return ErrorStyle.Render("Error: "+err.Error()) + "\n" + SubtleStyle.Render("Press r to reset the feed.")
}

// RenderUserDetail renders one user in a box.
func RenderUserDetail(u feed.UserRecord, width int) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("USER DETAIL"))
	b.WriteString("\n\n")
	for _, f := range [][2]string{
		{"Name:      ", strings.TrimSpace(u.FirstName + " " + u.LastName)},
		{"Email:     ", u.Email},
		{"Country:   ", u.Country},
		{"Thumbnail: ", u.ThumbnailURL},
	} {
		b.WriteString(LabelStyle.Render(f[0]))
		b.WriteString(ValueStyle.Render(f[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render("[Esc] Back  [q] Quit"))

	box := BoxStyle
	if width > 4 {
		box = box.Width(min(width-4, 80))
	}
	return box.Render(b.String())
}

func loadingMessage(token int) string {
	if token <= feed.FirstPage {
		return "Loading users..."
	}
	return fmt.Sprintf("Loading page %d...", token)
}
