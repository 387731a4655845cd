// Package holdings models financial holdings as fetched from a holdings endpoint.
//
// The package is pure data: it decodes holding records leniently from their wire
// form, assigns each holding a unique identity key, groups holdings by asset class
// in order of first appearance, and tracks per-row expansion state. Key types:
//   - Holding: one position record with valuation fields and additional details
//   - Book: an immutable holdings list with memoized keys and grouping
//   - Expansion: the expanded/collapsed flag per holding key
//
// Nothing here performs I/O; fetching lives in internal/client and rendering in
// internal/tui and internal/render.
package holdings
