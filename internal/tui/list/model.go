package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders the item at index. index is the item's position in the
// list, which lets callers stripe alternate rows.
type RenderFunc[T any] func(item T, index int, selected bool) string

// Model is a cursor-driven list that renders only the rows around the
// viewport. Items can be replaced while keeping the cursor in place, so a
// growing feed does not jump back to the top.
type Model[T any] struct {
	items  []T
	render RenderFunc[T]

	cursor int
	from   int
	to     int
	height int
	width  int
}

// New returns a list over items with a viewport of height rows.
func New[T any](items []T, height, width int, render RenderFunc[T]) *Model[T] {
	m := &Model[T]{items: items, render: render, height: max(height, 1), width: width}
	m.scroll()
	return m
}

// Init implements tea.Model.
func (m *Model[T]) Init() tea.Cmd {
	return nil
}

// Update moves the cursor on navigation keys and tracks resizes.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Height, msg.Width)
	}
	return m, nil
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) {
	if len(m.items) == 0 {
		return
	}
	switch msg.String() {
	case "up", "k":
		m.SetCursor(m.cursor - 1)
	case "down", "j":
		m.SetCursor(m.cursor + 1)
	case "pgup", "ctrl+u":
		m.SetCursor(m.cursor - m.height)
	case "pgdown", "ctrl+d":
		m.SetCursor(m.cursor + m.height)
	case "home", "g":
		m.SetCursor(0)
	case "end", "G":
		m.SetCursor(len(m.items) - 1)
	}
}

// SetItems replaces the items, clamping the cursor to the new length.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetCursor(m.cursor)
}

// SetSize changes the viewport dimensions.
func (m *Model[T]) SetSize(height, width int) {
	m.height = max(height, 1)
	m.width = width
	m.scroll()
}

// SetCursor moves the cursor, clamped to the item range.
func (m *Model[T]) SetCursor(i int) {
	m.cursor = min(max(i, 0), max(len(m.items)-1, 0))
	m.scroll()
}

// Cursor returns the selected index.
func (m *Model[T]) Cursor() int {
	return m.cursor
}

// Len returns the number of items.
func (m *Model[T]) Len() int {
	return len(m.items)
}

// AtEnd reports whether the cursor is on the last item.
func (m *Model[T]) AtEnd() bool {
	return len(m.items) > 0 && m.cursor == len(m.items)-1
}

// Selected returns the item under the cursor, or false when empty.
func (m *Model[T]) Selected() (T, bool) {
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	return m.items[m.cursor], true
}

// Window returns the visible index range [from, to).
func (m *Model[T]) Window() (int, int) {
	return m.from, m.to
}

// scroll keeps the cursor inside the viewport, moving the window only when
// the cursor leaves it.
func (m *Model[T]) scroll() {
	n := len(m.items)
	if n == 0 {
		m.from, m.to = 0, 0
		return
	}
	if m.cursor < m.from {
		m.from = m.cursor
	}
	if m.cursor >= m.from+m.height {
		m.from = m.cursor - m.height + 1
	}
	m.from = min(m.from, max(n-m.height, 0))
	m.to = min(m.from+m.height, n)
}

// View renders the rows inside the window.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	for i := m.from; i < m.to; i++ {
		if i > m.from {
			b.WriteByte('\n')
		}
		b.WriteString(m.render(m.items[i], i, i == m.cursor))
	}
	return b.String()
}
