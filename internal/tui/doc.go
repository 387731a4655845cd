// Package tui provides the interactive holdings view built on Bubble Tea.
//
// HoldingsModel moves through explicit states: it starts in ViewStateLoading
// while the fetch runs, then shows the grouped table (ViewStateList) or the
// failure (ViewStateError). Every fetch carries a generation number so that a
// result arriving after a refresh or after quitting is dropped.
//
// DetectOutputMode decides whether the interactive view is used at all.
package tui
