package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/holdview/internal/holdings"
)

// renderStyled writes the grouped table with lipgloss styling, using the same
// line model as the interactive view.
func renderStyled(w io.Writer, book *holdings.Book, opts Options) error {
	r := lipgloss.NewRenderer(w)
	styles := PlainStyles()
	if opts.Color {
		styles = NewStyles(r)
	}

	if book.IsEmpty() {
		_, err := fmt.Fprintln(w, styles.Subtle.Render(emptyMessage))
		return err
	}

	f := opts.formatter()
	lines := BuildLines(book, opts.expansion())
	layout := NewLayout(lines, f)

	clip := r.NewStyle()
	if opts.Width > 0 {
		clip = clip.MaxWidth(opts.Width)
	}

	var b strings.Builder
	b.WriteString(clip.Render(styles.Header.Render(layout.Header())))
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(clip.Render(layout.StyledLine(line, f, styles)))
		b.WriteString("\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	summary := fmt.Sprintf("%d holdings in %d asset classes · total %s",
		book.Len(), len(book.Groups()), f.Total(book.TotalMarketValue()))
	if opts.Footer != "" {
		summary += " · " + opts.Footer
	}
	_, err := fmt.Fprintln(w, styles.StatusBar.Render(summary))
	return err
}
