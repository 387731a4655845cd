package holdings

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Book is an immutable holdings list with identity keys and asset-class grouping.
//
// Keys and groups are computed once in NewBook; renders read them without
// recomputation. A nil *Book behaves as an empty book.
type Book struct {
	entries []Entry
	index   map[Key]int
	groups  []Group
}

// NewBook builds a Book from a fetched holdings list.
func NewBook(holdings []Holding) *Book {
	return newBookFromEntries(newEntries(holdings))
}

func newBookFromEntries(entries []Entry) *Book {
	index := make(map[Key]int, len(entries))
	for i, e := range entries {
		index[e.Key] = i
	}
	return &Book{
		entries: entries,
		index:   index,
		groups:  groupEntries(entries),
	}
}

// Len returns the number of holdings.
func (b *Book) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// IsEmpty reports whether the book holds no holdings.
func (b *Book) IsEmpty() bool {
	return b.Len() == 0
}

// Entries returns the keyed holdings in fetch order.
func (b *Book) Entries() []Entry {
	if b == nil {
		return nil
	}
	return b.entries
}

// Holdings returns the holdings in fetch order.
func (b *Book) Holdings() []Holding {
	if b == nil {
		return nil
	}
	out := make([]Holding, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Holding
	}
	return out
}

// Keys returns the holding keys in fetch order.
func (b *Book) Keys() []Key {
	if b == nil {
		return nil
	}
	out := make([]Key, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Key
	}
	return out
}

// Groups returns the asset-class groups in order of first appearance.
func (b *Book) Groups() []Group {
	if b == nil {
		return nil
	}
	return b.groups
}

// Lookup returns the holding with the given key.
func (b *Book) Lookup(key Key) (Holding, bool) {
	if b == nil {
		return Holding{}, false
	}
	idx, ok := b.index[key]
	if !ok {
		return Holding{}, false
	}
	return b.entries[idx].Holding, true
}

// DuplicateCount returns how many holdings repeat the ticker or name of an earlier one.
func (b *Book) DuplicateCount() int {
	count := 0
	for _, e := range b.Entries() {
		if e.Duplicate {
			count++
		}
	}
	return count
}

// TotalMarketValue sums the numeric market values of all holdings.
func (b *Book) TotalMarketValue() decimal.Decimal {
	total := decimal.Zero
	for _, g := range b.Groups() {
		total = total.Add(g.TotalMarketValue)
	}
	return total
}

// Filter returns a book with the holdings whose name, ticker or asset class contains
// query, case-insensitively. Keys are carried over from b so that expansion state
// stays attached to the same holdings. An empty query returns b itself.
func (b *Book) Filter(query string) *Book {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || b == nil {
		return b
	}

	var matched []Entry
	for _, e := range b.entries {
		h := e.Holding
		if strings.Contains(strings.ToLower(h.Name), query) ||
			strings.Contains(strings.ToLower(h.Ticker), query) ||
			strings.Contains(strings.ToLower(h.AssetClass), query) {
			matched = append(matched, e)
		}
	}
	return newBookFromEntries(matched)
}
