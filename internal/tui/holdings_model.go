package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/holdview/internal/client"
	"github.com/rshade/holdview/internal/holdings"
	"github.com/rshade/holdview/internal/logging"
	"github.com/rshade/holdview/internal/render"
	listview "github.com/rshade/holdview/internal/tui/list"
)

// Fetcher retrieves the holdings list. It must return promptly once ctx is canceled.
type Fetcher func(ctx context.Context) (*client.Result, error)

// HoldingsOptions configure a HoldingsModel.
type HoldingsOptions struct {
	// Source is the endpoint shown while loading and in the status bar.
	Source string

	BaseCurrency string
	Precision    int

	// Filter is the initial filter query.
	Filter string

	// ExpandAll opens every row of the first successful fetch.
	ExpandAll bool

	// Styles default to render.NewStyles with the lipgloss default renderer.
	Styles *render.Styles
}

// holdingsLoadedMsg carries the outcome of one fetch.
type holdingsLoadedMsg struct {
	generation int
	result     *client.Result
	err        error
}

// HoldingsModel is the Bubble Tea model of the interactive holdings view.
type HoldingsModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	fetcher Fetcher
	source  string

	// generation identifies the latest fetch; older results are dropped.
	generation  int
	fetchCancel context.CancelFunc
	expandFirst bool

	state   ViewState
	loading *LoadingState
	err     error

	// book is the full fetched list; view is book narrowed by filter.
	result    *client.Result
	book      *holdings.Book
	view      *holdings.Book
	filter    string
	expansion *holdings.Expansion

	lines       []render.Line
	layout      render.Layout
	formatter   render.NumberFormatter
	styles      render.Styles
	virtualList *listview.VirtualListModel[render.Line]

	textInput  textinput.Model
	showFilter bool

	width  int
	height int
}

// NewHoldingsModel creates a model that starts loading on Init. Canceling ctx, or
// quitting the view, cancels the fetch in flight.
func NewHoldingsModel(ctx context.Context, fetcher Fetcher, opts HoldingsOptions) *HoldingsModel {
	ctx, cancel := context.WithCancel(ctx)

	styles := render.NewStyles(nil)
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	m := &HoldingsModel{
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		source:      opts.Source,
		expandFirst: opts.ExpandAll,
		state:       ViewStateLoading,
		loading:     NewLoadingState(loadingMessage(opts.Source)),
		filter:      opts.Filter,
		expansion:   holdings.NewExpansion(),
		formatter:   render.NewNumberFormatter(opts.BaseCurrency, opts.Precision),
		styles:      styles,
		textInput:   newFilterInput(opts.Filter),
		width:       defaultWidth,
		height:      defaultHeight,
	}
	m.virtualList = listview.NewVirtualListModel(m.lines, m.listHeight(), m.width, m.renderLine)
	return m
}

func loadingMessage(source string) string {
	if source == "" {
		return "Loading holdings..."
	}
	return fmt.Sprintf("Loading holdings from %s...", source)
}

func newFilterInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Filter by name, ticker or asset class..."
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	ti.SetValue(value)
	return ti
}

// Init starts the spinner and the first fetch.
func (m *HoldingsModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.startFetch())
}

// startFetch begins a new generation and returns the command running its fetch.
// A fetch still in flight is canceled.
func (m *HoldingsModel) startFetch() tea.Cmd {
	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	m.generation++
	generation := m.generation

	ctx, cancel := context.WithCancel(m.ctx)
	m.fetchCancel = cancel
	fetcher := m.fetcher

	return func() tea.Msg {
		res, err := fetcher(ctx)
		return holdingsLoadedMsg{generation: generation, result: res, err: err}
	}
}

// Update handles messages and updates the model state.
func (m *HoldingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case holdingsLoadedMsg:
		return m.handleLoaded(msg)
	}

	switch m.state {
	case ViewStateLoading:
		return m.handleLoadingUpdate(msg)
	case ViewStateList:
		if m.showFilter {
			return m.handleFilterInput(msg)
		}
		return m.handleListUpdate(msg)
	case ViewStateError:
		return m.handleErrorUpdate(msg)
	default:
		return m, nil
	}
}

func (m *HoldingsModel) handleLoaded(msg holdingsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.generation || m.state == ViewStateQuitting {
		logging.FromContext(m.ctx).Debug().
			Str("component", "tui").
			Int("generation", msg.generation).
			Int("current", m.generation).
			Msg("dropping stale fetch result")
		return m, nil
	}
	if m.fetchCancel != nil {
		m.fetchCancel()
		m.fetchCancel = nil
	}

	log := logging.FromContext(m.ctx)
	if msg.err != nil {
		log.Error().
			Str("component", "tui").
			Str("kind", string(client.KindOf(msg.err))).
			Err(msg.err).
			Msg("failed to load holdings")
		m.err = msg.err
		m.state = ViewStateError
		return m, nil
	}

	m.err = nil
	m.result = msg.result
	var list []holdings.Holding
	if msg.result != nil {
		list = msg.result.Holdings
	}
	m.setBook(holdings.NewBook(list))
	m.state = ViewStateList
	log.Debug().
		Str("component", "tui").
		Int("holdings", m.book.Len()).
		Int("duplicate_keys", m.book.DuplicateCount()).
		Int("generation", msg.generation).
		Msg("holdings loaded")
	return m, nil
}

// setBook replaces the rendered list. Expansion state is kept for keys still present.
func (m *HoldingsModel) setBook(book *holdings.Book) {
	focus := m.focusKey()
	m.book = book
	m.expansion.Retain(book.Keys())
	if m.expandFirst {
		m.expansion.ExpandAll(book.Keys())
		m.expandFirst = false
	}
	m.applyFilter(focus)
}

func (m *HoldingsModel) applyFilter(focus holdings.Key) {
	m.view = m.book.Filter(m.filter)
	m.rebuildLines(focus)
}

// rebuildLines recomputes the display lines and keeps the cursor on focus when
// it is still shown.
func (m *HoldingsModel) rebuildLines(focus holdings.Key) {
	m.lines = render.BuildLines(m.view, m.expansion.IsExpanded)
	m.layout = render.NewLayout(m.lines, m.formatter)
	m.virtualList.SetItems(m.lines)
	if focus == "" {
		return
	}
	for i, line := range m.lines {
		if line.Kind == render.LineHolding && line.Key == focus {
			m.virtualList.SetSelected(i)
			return
		}
	}
}

// focusKey returns the holding under the cursor; a detail line yields its parent.
func (m *HoldingsModel) focusKey() holdings.Key {
	line := m.virtualList.GetSelectedItem()
	if line == nil || line.Kind == render.LineGroup {
		return ""
	}
	return line.Key
}

func (m *HoldingsModel) handleLoadingUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			return m.quit()
		}
		return m, nil
	}
	return m, m.loading.Update(msg)
}

func (m *HoldingsModel) handleErrorUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case keyQuit, keyCtrlC, keyEsc:
		return m.quit()
	case keyRefresh:
		return m.refresh()
	}
	return m, nil
}

func (m *HoldingsModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		return m.quit()
	case keyEnter, keySpace, keyRight, keyLeft:
		m.toggleSelected()
	case keyExpand:
		focus := m.focusKey()
		m.expansion.ExpandAll(m.view.Keys())
		m.rebuildLines(focus)
	case keyCollapse:
		focus := m.focusKey()
		m.expansion.CollapseAll()
		m.rebuildLines(focus)
	case keyRefresh:
		return m.refresh()
	case keySlash:
		m.showFilter = true
		m.resize()
		m.textInput.SetValue(m.filter)
		m.textInput.CursorEnd()
		return m, m.textInput.Focus()
	case keyEsc:
		if m.filter != "" {
			m.setFilter("")
		}
	default:
		m.virtualList.HandleKey(keyMsg)
	}
	return m, nil
}

// toggleSelected flips the holding under the cursor. On a detail line the parent
// holding is toggled and the cursor moves to it; group headers are ignored.
func (m *HoldingsModel) toggleSelected() {
	key := m.focusKey()
	if key == "" {
		return
	}
	m.expansion.Toggle(key)
	m.rebuildLines(key)
}

func (m *HoldingsModel) handleFilterInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyCtrlC:
			return m.quit()
		case keyEnter:
			m.closeFilter()
			return m, nil
		case keyEsc:
			m.closeFilter()
			m.textInput.SetValue("")
			m.setFilter("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	if value := m.textInput.Value(); value != m.filter {
		m.setFilter(value)
	}
	return m, cmd
}

func (m *HoldingsModel) closeFilter() {
	m.showFilter = false
	m.textInput.Blur()
	m.resize()
}

func (m *HoldingsModel) setFilter(query string) {
	focus := m.focusKey()
	m.filter = query
	m.applyFilter(focus)
}

// refresh re-enters the loading state with a new fetch generation.
func (m *HoldingsModel) refresh() (tea.Model, tea.Cmd) {
	m.state = ViewStateLoading
	if m.showFilter {
		m.closeFilter()
	}
	m.loading = NewLoadingState(loadingMessage(m.source))
	return m, tea.Batch(m.loading.Init(), m.startFetch())
}

func (m *HoldingsModel) quit() (tea.Model, tea.Cmd) {
	m.state = ViewStateQuitting
	m.cancel()
	return m, tea.Quit
}

func (m *HoldingsModel) resize() {
	m.virtualList.SetSize(m.width, m.listHeight())
}

// listHeight is the number of table rows that fit below the header and above
// the status bar.
func (m *HoldingsModel) listHeight() int {
	h := m.height - chromeHeight
	if m.showFilter {
		h--
	}
	return max(h, minHeight)
}

// State returns the current view state.
func (m *HoldingsModel) State() ViewState {
	return m.state
}

// Err returns the error of the last failed fetch.
func (m *HoldingsModel) Err() error {
	return m.err
}

// Book returns the last fetched holdings, unfiltered.
func (m *HoldingsModel) Book() *holdings.Book {
	return m.book
}

// Lines returns the lines currently displayed.
func (m *HoldingsModel) Lines() []render.Line {
	return m.lines
}

// Expansion returns the expansion state.
func (m *HoldingsModel) Expansion() *holdings.Expansion {
	return m.expansion
}
