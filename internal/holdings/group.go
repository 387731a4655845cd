package holdings

import (
	"github.com/shopspring/decimal"
)

// UnclassifiedLabel is displayed for holdings with an empty asset class.
const UnclassifiedLabel = "Unclassified"

// Entry pairs a holding with its identity key.
type Entry struct {
	Key     Key
	Holding Holding

	// Duplicate is set when an earlier holding in the list had the same base key.
	Duplicate bool
}

// Group is the set of holdings sharing one asset class.
type Group struct {
	// AssetClass is the raw grouping value (possibly empty).
	AssetClass string

	// Entries keeps the original relative order of the holdings.
	Entries []Entry

	// TotalMarketValue sums the numeric market values of the group.
	TotalMarketValue decimal.Decimal
}

// Label returns the asset class for display.
func (g Group) Label() string {
	if g.AssetClass == "" {
		return UnclassifiedLabel
	}
	return g.AssetClass
}

// Len returns the number of holdings in the group.
func (g Group) Len() int {
	return len(g.Entries)
}

// Holdings returns the group's holdings in order.
func (g Group) Holdings() []Holding {
	out := make([]Holding, len(g.Entries))
	for i, e := range g.Entries {
		out[i] = e.Holding
	}
	return out
}

// GroupByAssetClass groups holdings by asset class.
//
// Groups appear in order of the first holding of each class, and each group keeps
// the original relative order of its holdings. An empty list yields no groups.
func GroupByAssetClass(holdings []Holding) []Group {
	return groupEntries(newEntries(holdings))
}

func newEntries(holdings []Holding) []Entry {
	keys, repeated := assignKeys(holdings)
	entries := make([]Entry, len(holdings))
	for i, h := range holdings {
		entries[i] = Entry{Key: keys[i], Holding: h, Duplicate: repeated[i]}
	}
	return entries
}

func groupEntries(entries []Entry) []Group {
	if len(entries) == 0 {
		return nil
	}

	position := make(map[string]int)
	var groups []Group

	for _, e := range entries {
		class := e.Holding.AssetClass
		idx, ok := position[class]
		if !ok {
			idx = len(groups)
			position[class] = idx
			groups = append(groups, Group{AssetClass: class})
		}

		g := &groups[idx]
		g.Entries = append(g.Entries, e)
		if v, valid := e.Holding.MarketValue.Decimal(); valid {
			g.TotalMarketValue = g.TotalMarketValue.Add(v)
		}
	}

	return groups
}
