package listview

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// RenderFunc renders one item. selected is set for the item under the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// VirtualListModel is a scrolling list that renders only the rows inside its window.
//
// The window follows the cursor with the minimum scroll needed to keep it
// visible, so moving within the window never shifts the rows.
type VirtualListModel[T any] struct {
	items      []T
	renderFunc RenderFunc[T]

	// selected is the cursor index (0-based).
	selected int

	// offset is the index of the first row in the window.
	offset int

	height int
	width  int
}

// NewVirtualListModel creates a list over items with a window of height rows.
func NewVirtualListModel[T any](items []T, height, width int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	m := &VirtualListModel[T]{
		items:      items,
		renderFunc: renderFunc,
		height:     max(height, 1),
		width:      width,
	}
	m.clamp()
	return m
}

// Init implements tea.Model.
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and resize messages.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.HandleKey(msg)
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	}
	return m, nil
}

// HandleKey moves the cursor for a navigation key and reports whether the key was one.
//
//nolint:exhaustive // Only navigation keys are handled.
func (m *VirtualListModel[T]) HandleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyUp:
		m.move(-1)
	case tea.KeyDown:
		m.move(1)
	case tea.KeyPgUp:
		m.move(-m.height)
	case tea.KeyPgDown:
		m.move(m.height)
	case tea.KeyHome:
		m.SetSelected(0)
	case tea.KeyEnd:
		m.SetSelected(len(m.items) - 1)
	case tea.KeyRunes:
		switch msg.String() {
		case "j":
			m.move(1)
		case "k":
			m.move(-1)
		case "g":
			m.SetSelected(0)
		case "G":
			m.SetSelected(len(m.items) - 1)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (m *VirtualListModel[T]) move(delta int) {
	m.SetSelected(m.selected + delta)
}

// clamp keeps the cursor inside the items and the window around the cursor.
func (m *VirtualListModel[T]) clamp() {
	if len(m.items) == 0 {
		m.selected = 0
		m.offset = 0
		return
	}

	m.selected = min(max(m.selected, 0), len(m.items)-1)

	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
	// Fill the window when the list shrank below it.
	m.offset = min(m.offset, max(len(m.items)-m.height, 0))
	m.offset = max(m.offset, 0)
}

// View renders the rows inside the window, at most height lines.
func (m *VirtualListModel[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	var b strings.Builder
	to := m.VisibleTo()
	for i := m.offset; i < to; i++ {
		if i > m.offset {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderFunc(m.items[i], i == m.selected))
	}
	return b.String()
}

// SetItems replaces the items and keeps the cursor index within range.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items
	m.clamp()
}

// SetSize resizes the window.
func (m *VirtualListModel[T]) SetSize(width, height int) {
	m.width = width
	m.height = max(height, 1)
	m.clamp()
}

// Items returns all items.
func (m *VirtualListModel[T]) Items() []T {
	return m.items
}

// ItemCount returns the total number of items in the list.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the cursor index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// SetSelected moves the cursor to index, capped to valid bounds.
func (m *VirtualListModel[T]) SetSelected(index int) {
	m.selected = index
	m.clamp()
}

// VisibleFrom returns the first visible item index (inclusive).
func (m *VirtualListModel[T]) VisibleFrom() int {
	return m.offset
}

// VisibleTo returns the last visible item index (exclusive).
func (m *VirtualListModel[T]) VisibleTo() int {
	return min(m.offset+m.height, len(m.items))
}

// Height returns the window height.
func (m *VirtualListModel[T]) Height() int {
	return m.height
}

// Width returns the window width.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}

// GetSelectedItem returns the item under the cursor, or nil for an empty list.
func (m *VirtualListModel[T]) GetSelectedItem() *T {
	if len(m.items) == 0 {
		return nil
	}
	return &m.items[m.selected]
}
