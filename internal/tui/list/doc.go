// Package listview provides a generic scrolling list for Bubble Tea views.
//
// Only the rows inside the window are rendered, so a view stays responsive no
// matter how many lines the list holds.
package listview
