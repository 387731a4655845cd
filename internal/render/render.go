package render

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/rshade/holdview/internal/holdings"
)

// Options tune a static rendering.
type Options struct {
	// ExpandAll prints the detail lines of every holding.
	ExpandAll bool

	// BaseCurrency is the ISO 4217 code for market values; empty prints plain numbers.
	BaseCurrency string

	// Precision is the number of decimal places for prices and percentages.
	Precision int

	// Width is the terminal width for styled and markdown output; 0 means unbounded.
	Width int

	// Color enables ANSI styling in styled and markdown output.
	Color bool

	// Footer is an optional trailing note, such as the data source, for human formats.
	Footer string
}

// Render writes book to w in the given format.
// FormatAuto must be resolved by the caller before rendering.
func Render(w io.Writer, format Format, book *holdings.Book, opts Options) error {
	var err error
	switch format {
	case FormatTable:
		err = renderTable(w, book, opts)
	case FormatStyled:
		err = renderStyled(w, book, opts)
	case FormatJSON:
		err = renderJSON(w, book)
	case FormatNDJSON:
		err = renderNDJSON(w, book)
	case FormatCSV:
		err = renderCSV(w, book)
	case FormatMarkdown:
		err = renderMarkdown(w, book, opts)
	case FormatAuto:
		return errors.New("render: auto format must be resolved before rendering")
	default:
		return fmt.Errorf("render: unsupported output format %q", format)
	}

	// Piping into head closes stdout early.
	if IsBrokenPipe(err) {
		return nil
	}
	return err
}

// IsBrokenPipe reports whether err is a write to a closed pipe.
func IsBrokenPipe(err error) bool {
	return err != nil && errors.Is(err, syscall.EPIPE)
}

func (o Options) formatter() NumberFormatter {
	return NewNumberFormatter(o.BaseCurrency, o.Precision)
}

func (o Options) expansion() func(holdings.Key) bool {
	if o.ExpandAll {
		return ExpandAll
	}
	return nil
}
