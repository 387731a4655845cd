package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// firstNumericColumn is the index of the first right-aligned column.
const firstNumericColumn = 4

// columnGap separates table columns.
const columnGap = "  "

// detailIndent offsets detail lines under the name column.
const detailIndent = "    "

// Layout holds fixed column widths for a set of lines so every row aligns.
type Layout struct {
	Widths []int
}

// NewLayout measures the header and every holding line.
func NewLayout(lines []Line, f NumberFormatter) Layout {
	cols := Columns()
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c)
	}
	for _, line := range lines {
		if line.Kind != LineHolding {
			continue
		}
		for i, c := range Cells(line, f) {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return Layout{Widths: widths}
}

// Row pads cells to the column widths. Text columns are left-aligned and
// numeric columns right-aligned.
func (l Layout) Row(cells []string) string {
	return l.row(cells, nil)
}

// row pads cells and applies style, when set, to each padded cell.
func (l Layout) row(cells []string, style func(col int, cell string) string) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString(columnGap)
		}
		width := 0
		if i < len(l.Widths) {
			width = l.Widths[i]
		}
		pad := max(width-lipgloss.Width(c), 0)
		if style != nil {
			c = style(i, c)
		}
		switch {
		case i >= firstNumericColumn:
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(c)
		case i < len(cells)-1:
			b.WriteString(c)
			b.WriteString(strings.Repeat(" ", pad))
		default:
			b.WriteString(c)
		}
	}
	return b.String()
}

// Header returns the padded column header row.
func (l Layout) Header() string {
	return l.Row(Columns())
}

// Width returns the total width of a full row.
func (l Layout) Width() int {
	total := 0
	for i, w := range l.Widths {
		if i > 0 {
			total += len(columnGap)
		}
		total += w
	}
	return total
}

// StyledLine renders one line with styles, padded to the layout.
func (l Layout) StyledLine(line Line, f NumberFormatter, s Styles) string {
	switch line.Kind {
	case LineGroup:
		return s.Group.Render(GroupHeading(line.Group, f))
	case LineDetail:
		return s.Detail.Render(detailIndent + DetailText(line.Detail))
	default:
		changeCol := len(Columns()) - 2
		change := s.Change(line)
		return l.row(Cells(line, f), func(col int, cell string) string {
			if col == changeCol {
				return change.Render(cell)
			}
			return s.Cell.Render(cell)
		})
	}
}
