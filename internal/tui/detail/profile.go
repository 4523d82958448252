package detail

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/rosterview/internal/cache"
	"github.com/rshade/rosterview/internal/roster"
)

const notProvided = "not provided"

//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// View is everything the panel needs about one expanded member.
type View struct {
	Member  roster.Member
	State   cache.State
	Profile roster.Profile
	Err     error
	// Spinner is the current spinner frame, drawn while the fetch is pending.
	Spinner string
	// Plain drops key hints for output that takes no keys.
	Plain bool
}

// Lines renders the panel, one terminal line per element.
func Lines(v View) []string {
	switch v.State {
	case cache.Pending:
		return []string{fmt.Sprintf("%s loading profile…", v.Spinner)}
	case cache.Failed:
		lines := []string{errorStyle.Render(fmt.Sprintf("could not load profile: %v", v.Err))}
		if !v.Plain {
			lines = append(lines, hintStyle.Render("press r to retry"))
		}
		return lines
	case cache.Resolved:
		return profileLines(v.Member, v.Profile)
	default:
		if v.Err != nil {
			return []string{errorStyle.Render(v.Err.Error())}
		}
		return []string{hintStyle.Render("profile not loaded")}
	}
}

func profileLines(m roster.Member, p roster.Profile) []string {
	name := p.FullName()
	if name == "" {
		name = m.DisplayName
	}
	return []string{
		field("Name", name),
		field("Email", m.Email),
		field("Graduation", p.GraduationLabel),
		field("GitHub", p.GithubURL),
		field("LinkedIn", p.LinkedInURL),
	}
}

func field(label, value string) string {
	if value == "" {
		value = notProvided
	}
	return labelStyle.Render(label) + value
}
