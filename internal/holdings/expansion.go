package holdings

import "sort"

// Expansion tracks which holding rows are expanded.
//
// A key absent from the set is collapsed. Rows never influence each other: every
// operation touches only the keys it is given.
type Expansion struct {
	open map[Key]bool
}

// NewExpansion returns an expansion set with every row collapsed.
func NewExpansion() *Expansion {
	return &Expansion{open: make(map[Key]bool)}
}

// IsExpanded reports whether the row with key is expanded.
func (e *Expansion) IsExpanded(key Key) bool {
	if e == nil {
		return false
	}
	return e.open[key]
}

// Toggle flips the row's state and returns the new state.
func (e *Expansion) Toggle(key Key) bool {
	expanded := !e.IsExpanded(key)
	e.Set(key, expanded)
	return expanded
}

// Set sets the row's state explicitly.
func (e *Expansion) Set(key Key, expanded bool) {
	if e.open == nil {
		e.open = make(map[Key]bool)
	}
	if expanded {
		e.open[key] = true
		return
	}
	delete(e.open, key)
}

// ExpandAll expands every given row.
func (e *Expansion) ExpandAll(keys []Key) {
	for _, k := range keys {
		e.Set(k, true)
	}
}

// CollapseAll collapses every row.
func (e *Expansion) CollapseAll() {
	clear(e.open)
}

// Retain discards the state of rows whose key is not in keys.
// It is called when a new holdings list replaces the rendered one.
func (e *Expansion) Retain(keys []Key) {
	if e == nil || len(e.open) == 0 {
		return
	}
	keep := make(map[Key]bool, len(keys))
	for _, k := range keys {
		keep[k] = true
	}
	for k := range e.open {
		if !keep[k] {
			delete(e.open, k)
		}
	}
}

// Count returns the number of expanded rows.
func (e *Expansion) Count() int {
	if e == nil {
		return 0
	}
	return len(e.open)
}

// Expanded returns the expanded keys in sorted order.
func (e *Expansion) Expanded() []Key {
	if e == nil {
		return nil
	}
	out := make([]Key, 0, len(e.open))
	for k := range e.open {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
