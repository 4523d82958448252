package tui

import (
	"strings"

	"golang.org/x/text/message"

	"github.com/rshade/rosterview/internal/cache"
	"github.com/rshade/rosterview/internal/roster"
	"github.com/rshade/rosterview/internal/selection"
	"github.com/rshade/rosterview/internal/tui/detail"
)

type rowKind int

const (
	rowTeam rowKind = iota
	rowMember
	rowDetail
	rowNotice
)

// row is one line of the browser. Team and member rows take the cursor.
type row struct {
	kind     rowKind
	teamID   int
	memberID string
	// pos is the member's roster position; blank ids make memberID ambiguous.
	pos  int
	text string
}

func (r row) selectable() bool {
	return r.kind == rowTeam || r.kind == rowMember
}

func sameRow(a, b row) bool {
	return a.kind == b.kind && a.teamID == b.teamID && a.memberID == b.memberID && a.pos == b.pos
}

func renderRow(r row, selected bool) string {
	var indent string
	switch r.kind {
	case rowMember:
		indent = "    "
	case rowDetail:
		indent = "          "
	case rowNotice:
		indent = "    "
	}
	if selected {
		return indent + SelectedStyle.Render(r.text)
	}
	return indent + r.text
}

// buildRows flattens the controller state into display rows.
func buildRows(ctrl *selection.Controller, p *message.Printer, spinnerFrame string) []row {
	selected, hasSelection := ctrl.SelectedTeam()

	var rows []row
	for _, team := range ctrl.Teams() {
		open := hasSelection && selected.ID == team.ID
		members, rosterErr := ctrl.RosterFor(team.ID)

		rows = append(rows, row{
			kind:   rowTeam,
			teamID: team.ID,
			text:   teamLine(p, team, len(members), rosterErr, open),
		})
		if !open {
			continue
		}

		if team.Description != "" {
			rows = append(rows, row{kind: rowNotice, teamID: team.ID, text: SubtleStyle.Render(team.Description)})
		}
		for _, link := range teamLinks(team) {
			rows = append(rows, row{kind: rowNotice, teamID: team.ID, text: link})
		}
		switch {
		case rosterErr != nil:
			rows = append(rows, row{kind: rowNotice, teamID: team.ID, text: CriticalStyle.Render("roster unavailable: " + rosterErr.Error())})
		case len(members) == 0:
			rows = append(rows, row{kind: rowNotice, teamID: team.ID, text: SubtleStyle.Render("no members")})
		}

		for i, m := range members {
			expanded := ctrl.IsMemberExpanded(m.ID)
			state := ctrl.LoadState(m.ID)
			rows = append(rows, row{
				kind:     rowMember,
				teamID:   team.ID,
				memberID: m.ID,
				pos:      i,
				text:     memberLine(m, state, expanded, spinnerFrame),
			})
			if !expanded {
				continue
			}

			prof, _ := ctrl.ProfileFor(m.ID)
			for _, line := range detail.Lines(detail.View{
				Member:  m,
				State:   state,
				Profile: prof,
				Err:     ctrl.ProfileErr(m.ID),
				Spinner: spinnerFrame,
			}) {
				rows = append(rows, row{kind: rowDetail, teamID: team.ID, memberID: m.ID, pos: i, text: line})
			}
		}
	}
	return rows
}

func teamLine(p *message.Printer, team roster.Team, members int, rosterErr error, open bool) string {
	marker := "▸"
	if open {
		marker = "▾"
	}

	var count string
	switch {
	case rosterErr != nil:
		count = CriticalStyle.Render("roster unavailable")
	case members == 1:
		count = SubtleStyle.Render("1 member")
	default:
		count = SubtleStyle.Render(p.Sprintf("%d members", members))
	}
	return marker + " " + TeamStyle.Render(team.ProjectName) + "  " + count
}

// teamLinks renders the project links that are set.
func teamLinks(team roster.Team) []string {
	var lines []string
	if team.GithubLink != "" {
		lines = append(lines, LabelStyle.Render("GitHub Repository: ")+ValueStyle.Render(team.GithubLink))
	}
	if team.FigmaLink != "" {
		lines = append(lines, LabelStyle.Render("Figma Design: ")+ValueStyle.Render(team.FigmaLink))
	}
	return lines
}

func memberLine(m roster.Member, state cache.State, expanded bool, spinnerFrame string) string {
	var b strings.Builder
	if expanded {
		b.WriteString("▾ ")
	} else {
		b.WriteString("▸ ")
	}
	b.WriteString(InitialsStyle.Render(orDash(m.Initials)))
	b.WriteString(" ")
	b.WriteString(MemberStyle.Render(orDash(m.DisplayName)))
	if m.Email != "" {
		b.WriteString("  ")
		b.WriteString(SubtleStyle.Render(m.Email))
	}

	switch state {
	case cache.Pending:
		b.WriteString(" " + spinnerFrame)
	case cache.Resolved:
		b.WriteString(" " + OKStyle.Render("✓"))
	case cache.Failed:
		b.WriteString(" " + CriticalStyle.Render("!"))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
