package render

import "github.com/charmbracelet/lipgloss"

// Color palette shared by the styled renderer and the interactive view.
const (
	ColorHeader   = lipgloss.Color("39")  // blue
	ColorGroup    = lipgloss.Color("213") // magenta
	ColorPositive = lipgloss.Color("82")  // green
	ColorNegative = lipgloss.Color("196") // red
	ColorSubtle   = lipgloss.Color("244") // gray
	ColorWarning  = lipgloss.Color("214") // orange
	ColorSelected = lipgloss.Color("236") // dark gray background
)

// Styles is a set of lipgloss styles bound to one renderer.
type Styles struct {
	Header    lipgloss.Style
	Group     lipgloss.Style
	Cell      lipgloss.Style
	Detail    lipgloss.Style
	Positive  lipgloss.Style
	Negative  lipgloss.Style
	Subtle    lipgloss.Style
	Warning   lipgloss.Style
	Selected  lipgloss.Style
	StatusBar lipgloss.Style
}

// NewStyles builds the palette for r. A nil renderer uses the lipgloss default renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Header:    r.NewStyle().Bold(true).Foreground(ColorHeader),
		Group:     r.NewStyle().Bold(true).Foreground(ColorGroup),
		Cell:      r.NewStyle(),
		Detail:    r.NewStyle().Foreground(ColorSubtle).Italic(true),
		Positive:  r.NewStyle().Foreground(ColorPositive),
		Negative:  r.NewStyle().Foreground(ColorNegative),
		Subtle:    r.NewStyle().Foreground(ColorSubtle),
		Warning:   r.NewStyle().Foreground(ColorWarning).Bold(true),
		Selected:  r.NewStyle().Background(ColorSelected).Bold(true),
		StatusBar: r.NewStyle().Foreground(ColorSubtle).PaddingTop(1),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header: plain, Group: plain, Cell: plain, Detail: plain, Positive: plain,
		Negative: plain, Subtle: plain, Warning: plain, Selected: plain, StatusBar: plain,
	}
}

// Change picks the style for a signed change value.
func (s Styles) Change(line Line) lipgloss.Style {
	d, ok := line.Holding.LatestChgPct.Decimal()
	switch {
	case !ok:
		return s.Cell
	case d.IsNegative():
		return s.Negative
	case d.IsPositive():
		return s.Positive
	default:
		return s.Cell
	}
}
