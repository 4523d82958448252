package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/rosterview/internal/cache"
	"github.com/rshade/rosterview/internal/roster"
	"github.com/rshade/rosterview/internal/selection"
	"github.com/rshade/rosterview/internal/source"
	"github.com/rshade/rosterview/internal/tui/detail"
)

// Plain renderer errors.
var (
	ErrUnknownTeam   = errors.New("unknown team")
	ErrUnknownMember = errors.New("member is not on the selected team")
)

// PlainOptions selects what RenderPlain prints.
type PlainOptions struct {
	// TeamID prints that team's roster when HasTeam is set.
	TeamID  int
	HasTeam bool
	// MemberID prints that member's profile.
	MemberID string
	// Prefetch prints every member's profile.
	Prefetch bool
	Language language.Tag
}

// RenderPlain prints the requested view once, for pipes and scripts.
// Profile failures are printed inline. Team list and selection failures are
// returned, and so is a rejected session token from any fetch, which leaves
// nothing printed.
func RenderPlain(ctx context.Context, w io.Writer, ctrl *selection.Controller, opts PlainOptions) error {
	if opts.Language == language.Und {
		opts.Language = language.English
	}
	p := message.NewPrinter(opts.Language)

	ctrl.LoadTeams(ctx)
	if err := ctrl.TeamsErr(); err != nil {
		return fmt.Errorf("loading teams: %w", err)
	}

	if !opts.HasTeam {
		return printTeams(w, ctrl, p)
	}
	if !ctrl.SelectTeam(opts.TeamID) {
		return fmt.Errorf("%w: %d", ErrUnknownTeam, opts.TeamID)
	}

	members, rosterErr := ctrl.CurrentRoster()
	if opts.Prefetch {
		// Per-member failures are rendered below or caught by sessionRejected.
		_ = ctrl.Prefetch(ctx)
	}
	if opts.MemberID != "" {
		flight := ctrl.ToggleMember(ctx, opts.MemberID)
		if flight == nil && !ctrl.IsMemberExpanded(opts.MemberID) {
			return fmt.Errorf("%w: %q", ErrUnknownMember, opts.MemberID)
		}
		if flight != nil {
			_, _ = flight.Wait(ctx)
		}
	}

	if err := sessionRejected(ctrl, members); err != nil {
		return err
	}

	team, _ := ctrl.SelectedTeam()
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(team.ProjectName) + "\n")
	if team.Description != "" {
		b.WriteString(team.Description + "\n")
	}
	for _, link := range teamLinks(team) {
		b.WriteString(link + "\n")
	}
	if rosterErr != nil {
		b.WriteString(CriticalStyle.Render("roster unavailable: "+rosterErr.Error()) + "\n")
	}
	for _, m := range members {
		b.WriteString(memberLine(m, cache.Absent, false, "") + "\n")
		if opts.Prefetch || m.ID == opts.MemberID {
			writeProfile(&b, ctrl, m)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func printTeams(w io.Writer, ctrl *selection.Controller, p *message.Printer) error {
	teams := ctrl.Teams()

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(p.Sprintf("Teams (%d)", len(teams))) + "\n")
	for _, team := range teams {
		members, rosterErr := ctrl.RosterFor(team.ID)
		b.WriteString(p.Sprintf("%4d  ", team.ID))
		b.WriteString(teamLine(p, team, len(members), rosterErr, false) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeProfile(b *strings.Builder, ctrl *selection.Controller, m roster.Member) {
	prof, _ := ctrl.ProfileFor(m.ID)
	for _, line := range detail.Lines(detail.View{
		Member:  m,
		State:   ctrl.LoadState(m.ID),
		Profile: prof,
		Err:     ctrl.ProfileErr(m.ID),
		Plain:   true,
	}) {
		b.WriteString("      " + line + "\n")
	}
}

// sessionRejected returns the first profile failure caused by a rejected
// session token.
func sessionRejected(ctrl *selection.Controller, members []roster.Member) error {
	for _, m := range members {
		if err := ctrl.ProfileErr(m.ID); errors.Is(err, source.ErrUnauthorized) {
			return fmt.Errorf("loading profile %s: %w", m.ID, err)
		}
	}
	return nil
}
