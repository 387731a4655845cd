package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/holdview/internal/client"
	"github.com/rshade/holdview/internal/holdings"
	"github.com/rshade/holdview/internal/render"
)

func sampleHoldings() []holdings.Holding {
	return []holdings.Holding{
		holdings.Holding{
			Name: "Apple", Ticker: "AAPL", AssetClass: "Equity",
			MarketValue: holdings.ParseAmount("1500.50"),
		}.WithDetails("Technology", "NASDAQ"),
		holdings.Holding{
			Name: "Treasury 10Y", Ticker: "UST10", AssetClass: "Bond",
			MarketValue: holdings.ParseAmount("990"),
		}.WithDetails("Government", "USD"),
		holdings.Holding{
			Name: "Microsoft", Ticker: "MSFT", AssetClass: "Equity",
			MarketValue: holdings.ParseAmount("2100"),
		}.WithDetails("Technology", "NASDAQ"),
	}
}

func staticFetcher(list []holdings.Holding) Fetcher {
	return func(context.Context) (*client.Result, error) {
		return &client.Result{
			Holdings:  list,
			Source:    client.SourceNetwork,
			URL:       "https://example.test/holdings",
			FetchedAt: time.Now(),
		}, nil
	}
}

func newTestModel(fetcher Fetcher, opts HoldingsOptions) *HoldingsModel {
	plain := render.PlainStyles()
	opts.Styles = &plain
	return NewHoldingsModel(context.Background(), fetcher, opts)
}

// load runs one fetch synchronously and feeds its result to the model.
func load(m *HoldingsModel) {
	msg := m.startFetch()()
	m.Update(msg)
}

func press(m *HoldingsModel, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func lineKinds(lines []render.Line) []render.LineKind {
	out := make([]render.LineKind, len(lines))
	for i, l := range lines {
		out[i] = l.Kind
	}
	return out
}

func TestNewHoldingsModel_StartsLoading(t *testing.T) {
	m := newTestModel(staticFetcher(nil), HoldingsOptions{Source: "https://example.test/holdings"})

	assert.Equal(t, ViewStateLoading, m.State())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading holdings from https://example.test/holdings")
}

func TestHoldingsModel_SingleHoldingRendersOneRow(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()[:1]), HoldingsOptions{})
	load(m)

	require.Equal(t, ViewStateList, m.State())
	assert.Equal(t, []render.LineKind{render.LineGroup, render.LineHolding}, lineKinds(m.Lines()))

	view := m.View()
	assert.Contains(t, view, "Apple")
	assert.Contains(t, view, "Equity (1 holding)")
	assert.Contains(t, view, "Market Value (Base CCY)")
	assert.Contains(t, view, "1 holdings · 0 expanded")
}

func TestHoldingsModel_GroupsInFirstAppearanceOrder(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()), HoldingsOptions{})
	load(m)

	var order []string
	for _, l := range m.Lines() {
		if l.Kind == render.LineGroup {
			order = append(order, l.Group.Label())
		}
	}
	assert.Equal(t, []string{"Equity", "Bond"}, order)
	assert.Equal(t, holdings.Key("AAPL"), m.Lines()[1].Key)
	assert.Equal(t, holdings.Key("MSFT"), m.Lines()[2].Key)
}

func TestHoldingsModel_EmptyList(t *testing.T) {
	m := newTestModel(staticFetcher([]holdings.Holding{}), HoldingsOptions{})
	load(m)

	assert.Equal(t, ViewStateList, m.State())
	assert.Empty(t, m.Lines())
	assert.Contains(t, m.View(), "No holdings.")
}

func TestHoldingsModel_ToggleRow(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()), HoldingsOptions{})
	load(m)

	// Cursor starts on the Equity header; toggling it does nothing.
	press(m, "enter")
	assert.Equal(t, 0, m.Expansion().Count())

	press(m, "down")
	press(m, "enter")
	assert.True(t, m.Expansion().IsExpanded("AAPL"))
	assert.False(t, m.Expansion().IsExpanded("MSFT"))
	assert.Equal(t, []render.LineKind{
		render.LineGroup, render.LineHolding, render.LineDetail, render.LineDetail,
		render.LineHolding, render.LineGroup, render.LineHolding,
	}, lineKinds(m.Lines()))
	assert.Contains(t, m.View(), "Additional Detail 1: Technology")
	assert.Contains(t, m.View(), "▾")

	press(m, "space")
	assert.False(t, m.Expansion().IsExpanded("AAPL"))
	assert.Len(t, m.Lines(), 5)
}

func TestHoldingsModel_ToggleFromDetailLineCollapsesParent(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()), HoldingsOptions{})
	load(m)

	press(m, "down")
	press(m, "enter")
	press(m, "down")
	require.Equal(t, render.LineDetail, m.virtualList.GetSelectedItem().Kind)

	press(m, "enter")
	assert.False(t, m.Expansion().IsExpanded("AAPL"))
	selected := m.virtualList.GetSelectedItem()
	require.NotNil(t, selected)
	assert.Equal(t, render.LineHolding, selected.Kind)
	assert.Equal(t, holdings.Key("AAPL"), selected.Key)
}

func TestHoldingsModel_ExpandAndCollapseAll(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()), HoldingsOptions{})
	load(m)

	press(m, "e")
	assert.Equal(t, 3, m.Expansion().Count())
	assert.Len(t, m.Lines(), 2+3+6)

	press(m, "c")
	assert.Equal(t, 0, m.Expansion().Count())
	assert.Len(t, m.Lines(), 5)
}

func TestHoldingsModel_ExpandAllOption(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()), HoldingsOptions{ExpandAll: true})
	load(m)
	assert.Equal(t, 3, m.Expansion().Count())

	press(m, "c")
	load(m)
	assert.Equal(t, 0, m.Expansion().Count(), "expand-all applies to the first load only")
}

func TestHoldingsModel_DuplicateTickers(t *testing.T) {
	list := []holdings.Holding{
		{Name: "Apple", Ticker: "AAPL", AssetClass: "Equity"},
		{Name: "Apple", Ticker: "AAPL", AssetClass: "Equity"},
	}
	m := newTestModel(staticFetcher(list), HoldingsOptions{})
	load(m)

	require.Len(t, m.Lines(), 3)
	assert.Equal(t, holdings.Key("AAPL"), m.Lines()[1].Key)
	assert.Equal(t, holdings.Key("AAPL#2"), m.Lines()[2].Key)

	press(m, "down")
	press(m, "down")
	press(m, "enter")
	assert.True(t, m.Expansion().IsExpanded("AAPL#2"))
	assert.False(t, m.Expansion().IsExpanded("AAPL"))
	assert.NotPanics(t, func() { _ = m.View() })
}

func TestHoldingsModel_FailedFetch(t *testing.T) {
	fetchErr := &client.FetchError{
		Kind: client.KindNetwork,
		URL:  "https://example.test/holdings",
		Err:  errors.New("connection refused"),
	}
	calls := 0
	m := newTestModel(func(context.Context) (*client.Result, error) {
		calls++
		return nil, fetchErr
	}, HoldingsOptions{})
	load(m)

	assert.Equal(t, ViewStateError, m.State())
	assert.Empty(t, m.Lines())
	assert.ErrorIs(t, m.Err(), client.ErrNetwork)

	view := m.View()
	assert.Contains(t, view, "Failed to load holdings (network error)")
	assert.Contains(t, view, "connection refused")
	assert.NotContains(t, view, "Name")

	cmd := press(m, "r")
	assert.NotNil(t, cmd)
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Equal(t, 2, m.generation)
	assert.Equal(t, 1, calls)
}

func TestHoldingsModel_StaleGenerationIgnored(t *testing.T) {
	first := sampleHoldings()[:1]
	second := sampleHoldings()
	m := newTestModel(nil, HoldingsOptions{})

	m.fetcher = staticFetcher(first)
	stale := m.startFetch()
	m.fetcher = staticFetcher(second)
	current := m.startFetch()

	m.Update(stale())
	assert.Equal(t, ViewStateLoading, m.State(), "stale result must not leave the loading state")
	assert.Nil(t, m.Book())

	m.Update(current())
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, 3, m.Book().Len())

	// A result of the first generation arriving late is still ignored.
	m.Update(stale())
	assert.Equal(t, 3, m.Book().Len())
}

func TestHoldingsModel_RefreshCancelsInFlightFetch(t *testing.T) {
	m := newTestModel(nil, HoldingsOptions{})

	var firstCtx context.Context
	m.fetcher = func(ctx context.Context) (*client.Result, error) {
		firstCtx = ctx
		return nil, ctx.Err()
	}
	cmd := m.startFetch()
	m.startFetch()

	cmd()
	require.NotNil(t, firstCtx)
	assert.ErrorIs(t, firstCtx.Err(), context.Canceled)
}

func TestHoldingsModel_QuitCancelsAndDropsLateResult(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()), HoldingsOptions{})
	pending := m.startFetch()

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.ErrorIs(t, m.ctx.Err(), context.Canceled)

	m.Update(pending())
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.Nil(t, m.Book())
	assert.Empty(t, m.View())
}

func TestHoldingsModel_RefreshKeepsExpansion(t *testing.T) {
	list := sampleHoldings()
	m := newTestModel(staticFetcher(list), HoldingsOptions{})
	load(m)

	press(m, "down")
	press(m, "enter")
	press(m, "down")
	press(m, "down")
	press(m, "down")
	press(m, "enter")
	require.True(t, m.Expansion().IsExpanded("AAPL"))
	require.True(t, m.Expansion().IsExpanded("MSFT"))

	m.fetcher = staticFetcher(list[:1])
	press(m, "r")
	assert.Equal(t, ViewStateLoading, m.State())
	load(m)

	assert.True(t, m.Expansion().IsExpanded("AAPL"))
	assert.False(t, m.Expansion().IsExpanded("MSFT"), "keys no longer present are dropped")
}

func TestHoldingsModel_Filter(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()), HoldingsOptions{})
	load(m)

	press(m, "/")
	assert.True(t, m.showFilter)
	press(m, "b")
	press(m, "o")
	assert.Equal(t, "bo", m.filter)
	assert.Equal(t, []render.LineKind{render.LineGroup, render.LineHolding}, lineKinds(m.Lines()))

	press(m, "enter")
	assert.False(t, m.showFilter)
	assert.Contains(t, m.View(), `filter: "bo"`)
	assert.Contains(t, m.View(), "1 of 3 holdings")

	press(m, "esc")
	assert.Empty(t, m.filter)
	assert.Len(t, m.Lines(), 5)
}

func TestHoldingsModel_FilterWithoutMatches(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()), HoldingsOptions{Filter: "zzz"})
	load(m)

	assert.Empty(t, m.Lines())
	assert.Contains(t, m.View(), `No holdings match "zzz".`)
}

func TestHoldingsModel_SnapshotFlaggedStale(t *testing.T) {
	m := newTestModel(func(context.Context) (*client.Result, error) {
		return &client.Result{
			Holdings:       sampleHoldings(),
			Source:         client.SourceSnapshot,
			FetchedAt:      time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
			FallbackReason: errors.New("connection refused"),
		}, nil
	}, HoldingsOptions{})
	load(m)

	assert.Contains(t, m.View(), "stale snapshot from")
	assert.Contains(t, m.View(), "(fetch failed)")
}

func TestHoldingsModel_WindowResize(t *testing.T) {
	m := newTestModel(staticFetcher(sampleHoldings()), HoldingsOptions{})
	load(m)

	m.Update(tea.WindowSizeMsg{Width: 200, Height: 6})
	assert.Equal(t, minHeight, m.virtualList.Height())
	assert.Len(t, strings.Split(m.virtualList.View(), "\n"), minHeight)
}

func TestViewState_String(t *testing.T) {
	assert.Equal(t, "loading", ViewStateLoading.String())
	assert.Equal(t, "list", ViewStateList.String())
	assert.Equal(t, "error", ViewStateError.String())
	assert.Equal(t, "quitting", ViewStateQuitting.String())
}
