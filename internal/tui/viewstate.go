// Package tui renders the team browser: an interactive Bubble Tea program
// for terminals and a plain-text renderer for pipes.
package tui

// ViewState is the screen the browser is showing.
type ViewState int

const (
	// ViewStateLoading waits for the team list.
	ViewStateLoading ViewState = iota
	// ViewStateList shows teams, rosters and profiles.
	ViewStateList
	// ViewStateError shows a team list failure with a retry hint.
	ViewStateError
	// ViewStateExpired is shown once the session token is no longer valid.
	ViewStateExpired
	// ViewStateQuitting is the final frame.
	ViewStateQuitting
)

// String returns the lower-case name of the view state.
func (s ViewState) String() string {
	switch s {
	case ViewStateLoading:
		return "loading"
	case ViewStateList:
		return "list"
	case ViewStateError:
		return "error"
	case ViewStateExpired:
		return "expired"
	case ViewStateQuitting:
		return "quitting"
	default:
		return "unknown"
	}
}
