package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadingState drives the spinner shown while something is being fetched.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a spinner with message next to it.
func NewLoadingState(message string) *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)
	return &LoadingState{spinner: s, message: message}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on its tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// Frame returns the current spinner frame.
func (l *LoadingState) Frame() string {
	return l.spinner.View()
}

// RenderLoading returns the loading screen. A nil state renders plain text.
func RenderLoading(l *LoadingState) string {
	if l == nil {
		return "Loading..."
	}
	return fmt.Sprintf("\n %s %s\n\n", l.Frame(), l.message)
}
