// Package render produces static renderings of a holdings book: plain and styled
// tables, JSON, NDJSON, CSV and Markdown.
//
// The grouped line model (BuildLines, Layout) is shared with the interactive view
// so both print the same columns, group headers and detail lines.
package render
