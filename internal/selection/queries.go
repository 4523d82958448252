package selection

import (
	"slices"

	"github.com/rshade/rosterview/internal/cache"
	"github.com/rshade/rosterview/internal/disclosure"
	"github.com/rshade/rosterview/internal/profile"
	"github.com/rshade/rosterview/internal/roster"
)

// Teams returns the session's team list in backend order.
func (c *Controller) Teams() []roster.Team {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.teams)
}

// TeamsErr returns the error of the last failed team list load.
func (c *Controller) TeamsErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.teamsErr
}

// TeamsLoading reports whether the team list fetch is in flight.
func (c *Controller) TeamsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.teamsLoading
}

// TeamsLoaded reports whether the team list has been fetched this session.
func (c *Controller) TeamsLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.teamsLoaded
}

// SelectedTeam returns the selected team, if any.
func (c *Controller) SelectedTeam() (roster.Team, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	teamID, ok := c.tree.SelectedTeam()
	if !ok {
		return roster.Team{}, false
	}
	return c.findTeamLocked(teamID)
}

// CurrentRoster returns the members of the selected team. A malformed team
// yields no members and its derivation error; no selection yields nil, nil.
func (c *Controller) CurrentRoster() ([]roster.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentRosterLocked()
}

// RosterFor returns the members of any team, independent of the selection.
func (c *Controller) RosterFor(teamID int) ([]roster.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res := c.deriveLocked(teamID)
	return res.members, res.err
}

// ExpandedMemberID returns the expanded member, if any.
func (c *Controller) ExpandedMemberID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.ExpandedMember()
}

// IsMemberExpanded reports whether memberID is expanded.
func (c *Controller) IsMemberExpanded(memberID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.IsMemberExpanded(memberID)
}

// Disclosure returns a snapshot of the disclosure state.
func (c *Controller) Disclosure() disclosure.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.State()
}

// ProfileFor returns memberID's profile once it has been fetched.
func (c *Controller) ProfileFor(memberID string) (roster.Profile, bool) {
	return c.loader.Profile(memberID)
}

// IsProfileLoading reports whether memberID's profile is being fetched.
func (c *Controller) IsProfileLoading(memberID string) bool {
	return c.loader.IsLoading(memberID)
}

// ProfileErr returns why memberID has no profile: the last fetch failure,
// or profile.ErrInvalidKey for a blank id.
func (c *Controller) ProfileErr(memberID string) error {
	if _, err := profile.Normalize(memberID); err != nil {
		return err
	}
	return c.loader.Err(memberID)
}

// LoadState returns the cache state of memberID's profile.
func (c *Controller) LoadState(memberID string) cache.State {
	return c.loader.State(memberID)
}
