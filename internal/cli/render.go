package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/userfeed/internal/cli/pagination"
	"github.com/rshade/userfeed/internal/feed"
	"github.com/rshade/userfeed/internal/tui"
)

// outputFormat selects how list results are written.
type outputFormat string

const (
	outputTable  outputFormat = "table"
	outputJSON   outputFormat = "json"
	outputNDJSON outputFormat = "ndjson"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case outputTable, outputJSON, outputNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

type renderer struct {
	out    io.Writer
	format outputFormat
	plain  bool
	locale string
	colors bool
}

// listDocument is the JSON shape of a listing.
type listDocument struct {
	Users []feed.UserRecord `json:"users"`
	Meta  pagination.Meta   `json:"meta"`
}

func (r renderer) render(users []feed.UserRecord, meta pagination.Meta, accumulated int) error {
	switch r.format {
	case outputJSON:
		if users == nil {
			users = []feed.UserRecord{}
		}
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(listDocument{Users: users, Meta: meta})
	case outputNDJSON:
		enc := json.NewEncoder(r.out)
		for _, u := range users {
			if err := enc.Encode(u); err != nil {
				return err
			}
		}
		return nil
	default:
		return r.renderTable(users, meta, accumulated)
	}
}

func (r renderer) renderTable(users []feed.UserRecord, meta pagination.Meta, accumulated int) error {
	styled := !r.plain && tui.DetectOutputMode(false, false, true) != tui.OutputModePlain

	if len(users) == 0 {
		_, err := fmt.Fprintln(r.out, "No users.")
		return err
	}

	t := newUserTable(users, styled, r.colors, tui.TerminalWidth(0))
	if _, err := fmt.Fprintln(r.out, t); err != nil {
		return err
	}

	p := message.NewPrinter(language.Make(r.locale))
	summary := p.Sprintf("Showing %d of %d users (%d accumulated, %d page(s) fetched)",
		meta.Returned, meta.Total, accumulated, meta.Pages)
	if meta.HasMore {
		summary += "; more pages available"
	}
	if styled {
		summary = tui.SubtleStyle.Render(summary)
	}
	_, err := fmt.Fprintln(r.out, summary)
	return err
}

// Column widths for table output.
const (
	colFirst   = 14
	colLast    = 16
	colCountry = 16
	colEmail   = 34
)

// newUserTable renders users through a bubbles table sized to fit every row.
func newUserTable(users []feed.UserRecord, styled, stripes bool, width int) string {
	emailWidth := colEmail
	if width > 0 {
		// Cells carry one column of padding on each side.
		fixed := colFirst + colLast + colCountry + 8
		emailWidth = max(min(width-fixed, 60), 12)
	}
	columns := []table.Column{
		{Title: "First", Width: colFirst},
		{Title: "Last", Width: colLast},
		{Title: "Country", Width: colCountry},
		{Title: "Email", Width: emailWidth},
	}
	rows := make([]table.Row, len(users))
	for i, u := range users {
		rows[i] = table.Row{u.FirstName, u.LastName, u.Country, u.Email}
	}

	s := table.Styles{
		Header:   lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:     lipgloss.NewStyle().Padding(0, 1),
		Selected: lipgloss.NewStyle(),
	}
	if styled {
		s.Header = tui.TableHeaderStyle.Padding(0, 1)
	}

	t := table.New(table.WithColumns(columns), table.WithRows(rows), table.WithStyles(s))
	headerHeight := lipgloss.Height(s.Header.Render("X"))
	t.SetHeight(len(rows) + headerHeight)

	out := t.View()
	if styled && stripes {
		out = stripeLines(out, headerHeight)
	}
	return strings.TrimRight(out, "\n")
}

// stripeLines shades every other body line below the header.
func stripeLines(view string, headerHeight int) string {
	lines := strings.Split(view, "\n")
	for i := headerHeight; i < len(lines); i++ {
		if (i-headerHeight)%2 == 1 {
			lines[i] = tui.StripeStyle.Render(lines[i])
		}
	}
	return strings.Join(lines, "\n")
}
