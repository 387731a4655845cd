package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/holdview/internal/client"
	"github.com/rshade/holdview/internal/render"
)

// Cursor markers in front of every table line.
const (
	cursorSelected   = "> "
	cursorUnselected = "  "
)

const keyHelp = "↑/↓ move · enter toggle · e/c expand/collapse all · / filter · r refresh · q quit"

// View renders the model for the current state.
func (m *HoldingsModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateError:
		return m.renderErrorView()
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m *HoldingsModel) renderListView() string {
	var b strings.Builder

	switch {
	case m.book.IsEmpty():
		b.WriteString("No holdings.\n")
	case m.view.IsEmpty():
		fmt.Fprintf(&b, "No holdings match %q.\n", m.filter)
	default:
		b.WriteString(m.clip(m.styles.Header.Render(cursorUnselected + m.layout.Header())))
		b.WriteString("\n")
		b.WriteString(m.virtualList.View())
		b.WriteString("\n")
	}

	if m.showFilter {
		b.WriteString(keySlash + m.textInput.View())
		b.WriteString("\n")
	}
	b.WriteString(m.styles.StatusBar.Render(m.renderStatusBar()))
	return b.String()
}

// renderLine renders one table line for the virtual list.
func (m *HoldingsModel) renderLine(line render.Line, selected bool) string {
	if selected {
		plain := m.layout.StyledLine(line, m.formatter, render.PlainStyles())
		return m.clip(m.styles.Selected.Render(cursorSelected + plain))
	}
	return m.clip(cursorUnselected + m.layout.StyledLine(line, m.formatter, m.styles))
}

func (m *HoldingsModel) clip(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(s)
}

func (m *HoldingsModel) renderStatusBar() string {
	parts := make([]string, 0, 5)

	total := m.book.Len()
	if m.filter != "" {
		parts = append(parts, fmt.Sprintf("%d of %d holdings", m.view.Len(), total))
	} else {
		parts = append(parts, fmt.Sprintf("%d holdings", total))
	}
	parts = append(parts, fmt.Sprintf("%d expanded", m.expansion.Count()))

	if src := m.renderSource(); src != "" {
		parts = append(parts, src)
	}
	if m.filter != "" && !m.showFilter {
		parts = append(parts, fmt.Sprintf("filter: %q (esc clears)", m.filter))
	}
	parts = append(parts, keyHelp)

	return strings.Join(parts, " · ")
}

func (m *HoldingsModel) renderSource() string {
	res := m.result
	if res == nil {
		return ""
	}
	if res.IsSnapshot() {
		label := "stale snapshot from " + res.FetchedAt.Local().Format("2006-01-02 15:04")
		if res.FallbackReason != nil {
			label += " (fetch failed)"
		}
		return m.styles.Warning.Render(label)
	}
	return fmt.Sprintf("%s · fetched %s", res.Source, res.FetchedAt.Local().Format("15:04:05"))
}

func (m *HoldingsModel) renderErrorView() string {
	kind := string(client.KindOf(m.err))
	if kind == "" {
		kind = "unexpected"
	}

	var b strings.Builder
	b.WriteString("\n ")
	b.WriteString(m.styles.Negative.Bold(true).Render(fmt.Sprintf("Failed to load holdings (%s error)", kind)))
	b.WriteString("\n\n ")
	if m.err != nil {
		b.WriteString(m.err.Error())
	}
	b.WriteString("\n\n ")
	b.WriteString(m.styles.Subtle.Render("r retry · q quit"))
	b.WriteString("\n")
	return b.String()
}
