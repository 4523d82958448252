package disclosure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/rosterview/internal/disclosure"
)

func TestLevel_ZeroValueIsCollapsed(t *testing.T) {
	var l disclosure.Level[string]
	_, ok := l.Expanded()
	assert.False(t, ok)
	assert.False(t, l.IsExpanded(""))
	assert.False(t, l.Collapse())
}

func TestLevel_OneExpandedAtATime(t *testing.T) {
	var l disclosure.Level[string]

	assert.True(t, l.Toggle("a"))
	assert.True(t, l.IsExpanded("a"))

	assert.True(t, l.Toggle("b"))
	assert.False(t, l.IsExpanded("a"))
	assert.True(t, l.IsExpanded("b"))

	assert.False(t, l.Toggle("b"))
	_, ok := l.Expanded()
	assert.False(t, ok)

	assert.True(t, l.Expand("c"))
	assert.False(t, l.Expand("c"))
}

func TestTree_CrossLevelReset(t *testing.T) {
	for _, tc := range []struct {
		name string
		from int
		to   int
	}{
		{name: "different team", from: 1, to: 2},
		{name: "same team reselected", from: 1, to: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var tree disclosure.Tree
			tree.SelectTeam(tc.from)
			assert.True(t, tree.ToggleMember("m"))

			tree.SelectTeam(tc.to)

			_, ok := tree.ExpandedMember()
			assert.False(t, ok)
			id, ok := tree.SelectedTeam()
			assert.True(t, ok)
			assert.Equal(t, tc.to, id)
		})
	}
}

func TestTree_ToggleMemberTwiceRestoresState(t *testing.T) {
	var tree disclosure.Tree
	tree.SelectTeam(3)
	tree.ToggleMember("other")
	before := tree.State()

	assert.True(t, tree.ToggleMember("m"))
	assert.False(t, tree.ToggleMember("m"))

	// Toggling m closed other; only a fully collapsed start is restored exactly.
	assert.NotEqual(t, before, tree.State())

	tree.CollapseMember()
	before = tree.State()
	tree.ToggleMember("m")
	tree.ToggleMember("m")
	assert.Equal(t, before, tree.State())
}

func TestTree_ToggleMemberReportsExpansionOnly(t *testing.T) {
	var tree disclosure.Tree
	tree.SelectTeam(1)

	assert.True(t, tree.ToggleMember("u1"), "collapsed -> expanded")
	assert.True(t, tree.IsMemberExpanded("u1"))
	assert.False(t, tree.ToggleMember("u1"), "expanded -> collapsed")
	assert.True(t, tree.ToggleMember("u1"), "third toggle expands again")
	assert.True(t, tree.ToggleMember("u2"), "switching member expands the new one")
	assert.False(t, tree.IsMemberExpanded("u1"))
}

func TestTree_ToggleTeam(t *testing.T) {
	var tree disclosure.Tree

	assert.True(t, tree.ToggleTeam(1))
	tree.ToggleMember("u1")

	assert.False(t, tree.ToggleTeam(1))
	assert.Equal(t, disclosure.State{}, tree.State())

	assert.True(t, tree.ToggleTeam(2))
	tree.ToggleMember("u2")
	assert.True(t, tree.ToggleTeam(3))
	state := tree.State()
	assert.Equal(t, 3, state.TeamID)
	assert.False(t, state.MemberOpen)
}

func TestTree_Reset(t *testing.T) {
	var tree disclosure.Tree
	tree.SelectTeam(5)
	tree.ToggleMember("u1")

	tree.Reset()
	assert.Equal(t, disclosure.State{}, tree.State())
}
