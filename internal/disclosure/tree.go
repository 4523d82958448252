package disclosure

// State is a snapshot of the two-level disclosure.
type State struct {
	TeamID       int
	TeamSelected bool
	MemberID     string
	MemberOpen   bool
}

// Tree composes the team level and the member level.
type Tree struct {
	team   Level[int]
	member Level[string]
}

// SelectTeam makes teamID the selected team and collapses the member level,
// even when teamID was already selected.
func (t *Tree) SelectTeam(teamID int) {
	t.team.Expand(teamID)
	t.member.Collapse()
}

// ToggleTeam selects teamID, or deselects it when it is already selected.
// The member level is collapsed either way.
func (t *Tree) ToggleTeam(teamID int) bool {
	expanded := t.team.Toggle(teamID)
	t.member.Collapse()
	return expanded
}

// ToggleMember collapses memberID if it is expanded, otherwise expands it
// (collapsing any other member). It returns true only when memberID became
// expanded, which is when the caller should load its profile.
func (t *Tree) ToggleMember(memberID string) bool {
	return t.member.Toggle(memberID)
}

// CollapseMember collapses the member level.
func (t *Tree) CollapseMember() {
	t.member.Collapse()
}

// SelectedTeam returns the selected team id, if any.
func (t *Tree) SelectedTeam() (int, bool) {
	return t.team.Expanded()
}

// ExpandedMember returns the expanded member id, if any.
func (t *Tree) ExpandedMember() (string, bool) {
	return t.member.Expanded()
}

// IsMemberExpanded reports whether memberID is the expanded member.
func (t *Tree) IsMemberExpanded(memberID string) bool {
	return t.member.IsExpanded(memberID)
}

// State returns a snapshot of both levels.
func (t *Tree) State() State {
	teamID, teamOK := t.team.Expanded()
	memberID, memberOK := t.member.Expanded()
	return State{TeamID: teamID, TeamSelected: teamOK, MemberID: memberID, MemberOpen: memberOK}
}

// Reset collapses both levels.
func (t *Tree) Reset() {
	t.team.Collapse()
	t.member.Collapse()
}
