package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/rshade/holdview/internal/holdings"
)

// glamour standard style names.
const (
	glamourStyleDark  = "dark"
	glamourStyleNoTTY = "notty"
)

// Markdown builds the markdown document for a book: a title, one section per asset
// class with a pipe table, and detail bullets for expanded holdings.
func Markdown(book *holdings.Book, opts Options) string {
	var b strings.Builder
	b.WriteString("# Holdings\n\n")

	if book.IsEmpty() {
		b.WriteString(emptyMessage + "\n")
		return b.String()
	}

	f := opts.formatter()
	expanded := opts.expansion()
	cols := Columns()[1:]

	for _, g := range book.Groups() {
		fmt.Fprintf(&b, "## %s\n\n", escapeMarkdown(GroupHeading(g, f)))
		b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", firstNumericColumn-1) +
			strings.Repeat(" ---: |", len(cols)-firstNumericColumn+1) + "\n")

		var details []string
		for _, e := range g.Entries {
			line := Line{Kind: LineHolding, Group: g, Key: e.Key, Holding: e.Holding}
			cells := Cells(line, f)[1:]
			for i := range cells {
				cells[i] = escapeMarkdown(cells[i])
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")

			if expanded != nil && expanded(e.Key) {
				details = append(details, fmt.Sprintf("- **%s**", escapeMarkdown(displayName(e))))
				for _, d := range e.Holding.Details {
					details = append(details, "  - "+escapeMarkdown(DetailText(d)))
				}
			}
		}
		if len(details) > 0 {
			b.WriteString("\n" + strings.Join(details, "\n") + "\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "_%d holdings, total market value %s_\n", book.Len(), f.Total(book.TotalMarketValue()))
	if opts.Footer != "" {
		fmt.Fprintf(&b, "\n_%s_\n", escapeMarkdown(opts.Footer))
	}
	return b.String()
}

// renderMarkdown writes raw markdown, or glamour-rendered markdown when color is enabled.
func renderMarkdown(w io.Writer, book *holdings.Book, opts Options) error {
	md := Markdown(book, opts)
	if !opts.Color {
		_, err := io.WriteString(w, md)
		return err
	}

	style := glamourStyleDark
	if opts.Width <= 0 {
		style = glamourStyleNoTTY
	}
	renderOpts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if opts.Width > 0 {
		renderOpts = append(renderOpts, glamour.WithWordWrap(opts.Width))
	}
	renderer, err := glamour.NewTermRenderer(renderOpts...)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func displayName(e holdings.Entry) string {
	if e.Holding.Name != "" {
		return e.Holding.Name
	}
	return e.Key.String()
}

var markdownEscaper = strings.NewReplacer( //nolint:gochecknoglobals // Immutable replacer
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
