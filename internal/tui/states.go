package tui

// ViewState is the state of the holdings view.
type ViewState int

// View states.
const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateError
	ViewStateQuitting
)

func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateList:
		return "list"
	case ViewStateError:
		return "error"
	case ViewStateQuitting:
		return "quitting"
	default:
		return "unknown"
	}
}

// Window defaults used until the first tea.WindowSizeMsg arrives.
const (
	defaultWidth  = 120
	defaultHeight = 24

	// minHeight is the fewest list rows shown regardless of window size.
	minHeight = 3

	// chromeHeight is the table header plus the status bar with its padding.
	chromeHeight = 3

	filterInputCharLimit = 64
	filterInputWidth     = 40
)

// Key bindings.
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyEnter    = "enter"
	keySpace    = " "
	keyRight    = "right"
	keyLeft     = "left"
	keyEsc      = "esc"
	keySlash    = "/"
	keyExpand   = "e"
	keyCollapse = "c"
	keyRefresh  = "r"
)
