package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	ColorHeader   = lipgloss.Color("63")
	ColorLabel    = lipgloss.Color("245")
	ColorValue    = lipgloss.Color("255")
	ColorSubtle   = lipgloss.Color("240")
	ColorError    = lipgloss.Color("196")
	ColorSelectFg = lipgloss.Color("229")
	ColorSelectBg = lipgloss.Color("57")
	ColorStripeBg = lipgloss.Color("236")
)

// Shared styles.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle  = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	SubtleStyle = lipgloss.NewStyle().Foreground(ColorSubtle)
	ErrorStyle  = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(ColorLabel).Italic(true)
	BoxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorSubtle).
				BorderBottom(true)
	TableSelectedStyle = lipgloss.NewStyle().Foreground(ColorSelectFg).Background(ColorSelectBg)
	StripeStyle        = lipgloss.NewStyle().Background(ColorStripeBg)
)
