package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rshade/holdview/internal/holdings"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// emptyMessage is printed when a book has no holdings.
const emptyMessage = "No holdings."

// renderTable writes an aligned plain-text table. Each asset class starts with a
// header line; detail lines follow expanded holdings indented under the name column.
func renderTable(w io.Writer, book *holdings.Book, opts Options) error {
	if book.IsEmpty() {
		_, err := fmt.Fprintln(w, emptyMessage)
		return err
	}

	f := opts.formatter()
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	headers := Columns()
	if _, err := fmt.Fprintln(tw, strings.Join(upper(headers), "\t")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(underline(headers), "\t")); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for _, line := range BuildLines(book, opts.expansion()) {
		var err error
		switch line.Kind {
		case LineGroup:
			_, err = fmt.Fprintf(tw, "\t%s\n", GroupHeading(line.Group, f))
		case LineHolding:
			_, err = fmt.Fprintln(tw, strings.Join(Cells(line, f), "\t"))
		case LineDetail:
			_, err = fmt.Fprintf(tw, "\t  %s\n", DetailText(line.Detail))
		}
		if err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}

	return writeSummary(w, book, f, opts.Footer)
}

// writeSummary prints the totals line shared by the plain and styled tables.
func writeSummary(w io.Writer, book *holdings.Book, f NumberFormatter, footer string) error {
	groups := len(book.Groups())
	if _, err := fmt.Fprintf(w, "\n%d holdings in %d asset classes, total market value %s\n",
		book.Len(), groups, f.Total(book.TotalMarketValue())); err != nil {
		return err
	}
	if footer != "" {
		if _, err := fmt.Fprintln(w, footer); err != nil {
			return err
		}
	}
	return nil
}

func upper(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ToUpper(c)
	}
	return out
}

func underline(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.Repeat("-", len(c))
	}
	return out
}
