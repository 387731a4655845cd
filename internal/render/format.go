package render

import (
	"fmt"
	"strings"
)

// Format selects a static rendering of a holdings book.
type Format string

// Supported output formats.
const (
	// FormatAuto lets the caller pick interactive, styled or plain output from the terminal.
	FormatAuto     Format = "auto"
	FormatTable    Format = "table"
	FormatStyled   Format = "styled"
	FormatJSON     Format = "json"
	FormatNDJSON   Format = "ndjson"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists every accepted format name in help order.
func Formats() []Format {
	return []Format{FormatAuto, FormatTable, FormatStyled, FormatJSON, FormatNDJSON, FormatCSV, FormatMarkdown}
}

// ParseFormat converts a user-supplied format name. The empty string means auto.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return FormatAuto, nil
	}
	switch name {
	case "md":
		return FormatMarkdown, nil
	case "plain":
		return FormatTable, nil
	}
	for _, f := range Formats() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (want one of %s)", s, formatList())
}

// IsMachineReadable reports whether the format is meant for other programs rather than people.
func (f Format) IsMachineReadable() bool {
	return f == FormatJSON || f == FormatNDJSON || f == FormatCSV
}

func (f Format) String() string {
	return string(f)
}

func formatList() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
