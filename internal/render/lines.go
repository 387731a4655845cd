package render

import (
	"fmt"

	"github.com/rshade/holdview/internal/holdings"
)

// LineKind identifies what a rendered line represents.
type LineKind int

const (
	// LineGroup is an asset-class section header.
	LineGroup LineKind = iota
	// LineHolding is one holding row.
	LineHolding
	// LineDetail is an additional detail shown beneath an expanded holding.
	LineDetail
)

// Line is one line of the grouped holdings table, shared by the static renderers
// and the interactive view.
type Line struct {
	Kind LineKind

	// Group is set on every line to the group the line belongs to.
	Group holdings.Group

	// Key and Holding are set on holding and detail lines.
	Key     holdings.Key
	Holding holdings.Holding

	// Expanded is set on holding lines whose details follow.
	Expanded bool

	// Detail is set on detail lines.
	Detail holdings.Detail
}

// BuildLines flattens a book into display lines: a header per asset class, a row per
// holding and the detail lines of every holding for which expanded returns true.
// A nil expanded func collapses every row.
func BuildLines(book *holdings.Book, expanded func(holdings.Key) bool) []Line {
	groups := book.Groups()
	if len(groups) == 0 {
		return nil
	}

	lines := make([]Line, 0, len(groups)+book.Len())
	for _, g := range groups {
		lines = append(lines, Line{Kind: LineGroup, Group: g})
		for _, e := range g.Entries {
			open := expanded != nil && expanded(e.Key)
			lines = append(lines, Line{
				Kind:     LineHolding,
				Group:    g,
				Key:      e.Key,
				Holding:  e.Holding,
				Expanded: open,
			})
			if !open {
				continue
			}
			for _, d := range e.Holding.Details {
				lines = append(lines, Line{
					Kind:    LineDetail,
					Group:   g,
					Key:     e.Key,
					Holding: e.Holding,
					Detail:  d,
				})
			}
		}
	}
	return lines
}

// ExpandAll is an expansion func that opens every row.
func ExpandAll(holdings.Key) bool { return true }

// Columns returns the table column headers, starting with the blank expander column.
func Columns() []string {
	return []string{
		"",
		"Name",
		"Ticker",
		"Asset Class",
		"Average Price",
		"Market Price",
		"Latest Change (%)",
		"Market Value (Base CCY)",
	}
}

// Expander glyphs for the first column.
const (
	ExpanderCollapsed = "▸"
	ExpanderExpanded  = "▾"
)

// Cells returns the column values of a holding line.
func Cells(line Line, f NumberFormatter) []string {
	h := line.Holding
	expander := ExpanderCollapsed
	if line.Expanded {
		expander = ExpanderExpanded
	}
	return []string{
		expander,
		h.Name,
		h.Ticker,
		h.AssetClass,
		f.Price(h.AvgPrice),
		f.Price(h.MarketPrice),
		f.Percent(h.LatestChgPct),
		f.MarketValue(h.MarketValue),
	}
}

// DetailText returns the "Additional Detail N: value" text of a detail line.
func DetailText(d holdings.Detail) string {
	return d.Label() + ": " + d.Value
}

// GroupHeading returns the text of a group header line.
func GroupHeading(g holdings.Group, f NumberFormatter) string {
	noun := "holdings"
	if g.Len() == 1 {
		noun = "holding"
	}
	return fmt.Sprintf("%s (%d %s) · %s", g.Label(), g.Len(), noun, f.Total(g.TotalMarketValue))
}
