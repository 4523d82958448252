package tui

// Key bindings matched against tea.KeyMsg.String().
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyEnter    = "enter"
	keySpace    = " "
	keyEsc      = "esc"
	keyRetry    = "r"
	keyPrefetch = "p"
)

const helpLine = "↑/↓ move • enter open/close • esc collapse • r retry • p load all profiles • q quit"
