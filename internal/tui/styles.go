package tui

import "github.com/charmbracelet/lipgloss"

// Layout defaults used before the first tea.WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 30
	// chromeHeight is the number of lines taken by the header and footer.
	chromeHeight = 4
)

// Colors.
const (
	colorAccent = lipgloss.Color("39")
	colorSubtle = lipgloss.Color("241")
	colorError  = lipgloss.Color("196")
	colorOK     = lipgloss.Color("42")
	colorSelect = lipgloss.Color("236")
)

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSubtle)

	TeamStyle     = lipgloss.NewStyle().Bold(true)
	MemberStyle   = lipgloss.NewStyle()
	InitialsStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(colorAccent).
			Padding(0, 1)
	LabelStyle    = lipgloss.NewStyle().Foreground(colorSubtle)
	ValueStyle    = lipgloss.NewStyle()
	SubtleStyle   = lipgloss.NewStyle().Foreground(colorSubtle)
	CriticalStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	OKStyle       = lipgloss.NewStyle().Foreground(colorOK)

	SelectedStyle = lipgloss.NewStyle().Background(colorSelect).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(1, 2)
)
