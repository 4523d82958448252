package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/rosterview/internal/cache"
	"github.com/rshade/rosterview/internal/roster"
	"github.com/rshade/rosterview/internal/selection"
	"github.com/rshade/rosterview/internal/source"
)

// stubSource serves two teams. Profile fetches block on gate when it is set.
type stubSource struct {
	mu       sync.Mutex
	teams    []roster.Team
	teamsErr error
	failures map[string]error
	gate     chan struct{}
}

func newStubSource() *stubSource {
	return &stubSource{failures: map[string]error{}}
}

func (s *stubSource) FetchAllTeams(context.Context) ([]roster.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.teamsErr != nil {
		return nil, s.teamsErr
	}
	if s.teams != nil {
		return s.teams, nil
	}
	return []roster.Team{
		{
			ID: 1, ProjectName: "Campus Compost", Description: "Food waste routing",
			GithubLink: "https://github.com/example/compost", FigmaLink: "https://figma.com/file/compost",
			MemberIDs: "u1;u2", MemberNames: "Ann Lee,Bo Chu",
		},
		{ID: 2, ProjectName: "Half Finished", MemberIDs: "u6,u7", MemberNames: "Gus Hill"},
	}, nil
}

func (s *stubSource) FetchProfile(_ context.Context, id string) (roster.Profile, error) {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[id]; err != nil {
		return roster.Profile{}, err
	}
	return roster.Profile{ID: id, FirstName: "First-" + id, GraduationLabel: "2025"}, nil
}

func (s *stubSource) set(fn func(s *stubSource)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case keyEnter:
		return tea.KeyMsg{Type: tea.KeyEnter}
	case keyEsc:
		return tea.KeyMsg{Type: tea.KeyEsc}
	case keyCtrlC:
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press sends a key and returns the resulting command.
func press(t *testing.T, m *BrowserModel, key string) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(keyMsg(key))
	return cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *BrowserModel, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func loadedBrowser(t *testing.T, src *stubSource, opts ...BrowserOption) (*BrowserModel, *selection.Controller) {
	t.Helper()
	ctrl := selection.New(src)
	m := NewBrowserModel(context.Background(), ctrl, opts...)
	require.Equal(t, ViewStateLoading, m.State())
	assert.Contains(t, m.View(), "Loading teams")

	run(t, m, m.loadTeams())
	return m, ctrl
}

func TestBrowserModel_LoadsTeams(t *testing.T) {
	m, _ := loadedBrowser(t, newStubSource())

	assert.Equal(t, ViewStateList, m.State())
	view := m.View()
	assert.Contains(t, view, "Teams (2)")
	assert.Contains(t, view, "Campus Compost")
	assert.Contains(t, view, "2 members")
	assert.Contains(t, view, "roster unavailable")
	assert.NotContains(t, view, "Ann Lee")
}

func TestBrowserModel_OpenTeamAndMember(t *testing.T) {
	src := newStubSource()
	gate := make(chan struct{})
	src.set(func(s *stubSource) { s.gate = gate })
	m, ctrl := loadedBrowser(t, src)

	assert.Nil(t, press(t, m, keyEnter))
	view := m.View()
	assert.Contains(t, view, "Ann Lee")
	assert.Contains(t, view, "Food waste routing")
	assert.Contains(t, view, "GitHub Repository: https://github.com/example/compost")
	assert.Contains(t, view, "Figma Design: https://figma.com/file/compost")

	press(t, m, "down")
	cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)
	assert.True(t, ctrl.IsProfileLoading("u1"))
	assert.Contains(t, m.View(), "loading profile")

	close(gate)
	run(t, m, cmd)
	assert.Equal(t, cache.Resolved, ctrl.LoadState("u1"))
	view = m.View()
	assert.Contains(t, view, "First-u1")
	assert.Contains(t, view, "2025")

	press(t, m, keyEsc)
	assert.False(t, ctrl.IsMemberExpanded("u1"))
	press(t, m, keyEsc)
	_, selected := ctrl.SelectedTeam()
	assert.False(t, selected)
}

func TestBrowserModel_CachedProfileNeedsNoCommand(t *testing.T) {
	m, ctrl := loadedBrowser(t, newStubSource())
	press(t, m, keyEnter)
	press(t, m, "down")
	run(t, m, press(t, m, keyEnter))

	press(t, m, keyEnter)
	assert.False(t, ctrl.IsMemberExpanded("u1"))
	assert.Nil(t, press(t, m, keyEnter), "resolved profile is served from the cache")
	assert.True(t, ctrl.IsMemberExpanded("u1"))
}

func TestBrowserModel_FailedProfileRetry(t *testing.T) {
	src := newStubSource()
	src.set(func(s *stubSource) { s.failures["u1"] = errors.New("timeout") })
	m, ctrl := loadedBrowser(t, src)

	press(t, m, keyEnter)
	press(t, m, "down")
	run(t, m, press(t, m, keyEnter))
	assert.Equal(t, cache.Failed, ctrl.LoadState("u1"))
	assert.Contains(t, m.View(), "could not load profile: timeout")

	src.set(func(s *stubSource) { delete(s.failures, "u1") })
	run(t, m, press(t, m, keyRetry))
	assert.Equal(t, cache.Resolved, ctrl.LoadState("u1"))
	assert.Contains(t, m.View(), "First-u1")

	assert.Nil(t, press(t, m, keyRetry), "nothing to retry once resolved")
}

func TestBrowserModel_Prefetch(t *testing.T) {
	src := newStubSource()
	src.set(func(s *stubSource) { s.failures["u2"] = errors.New("gone") })
	m, ctrl := loadedBrowser(t, src, WithPrefetchOnSelect(true))

	cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)
	run(t, m, cmd)

	assert.Equal(t, cache.Resolved, ctrl.LoadState("u1"))
	assert.Equal(t, cache.Failed, ctrl.LoadState("u2"))
	assert.Contains(t, m.View(), "some profiles failed to load")
}

func TestBrowserModel_InitialSelection(t *testing.T) {
	m, ctrl := loadedBrowser(t, newStubSource(), WithInitialSelection(1, "u2"))

	assert.True(t, ctrl.IsMemberExpanded("u2"))
	current, ok := m.list.Selected()
	require.True(t, ok)
	assert.Equal(t, "u2", current.memberID)
}

func TestBrowserModel_TeamWithoutLinks(t *testing.T) {
	m, ctrl := loadedBrowser(t, newStubSource())
	require.True(t, ctrl.SelectTeam(2))
	m.refresh()

	view := m.View()
	assert.Contains(t, view, "Half Finished")
	assert.NotContains(t, view, "GitHub Repository")
	assert.NotContains(t, view, "Figma Design")
}

func TestBrowserModel_InitialSelectionOfTeamZero(t *testing.T) {
	src := newStubSource()
	src.set(func(s *stubSource) {
		s.teams = []roster.Team{{ID: 0, ProjectName: "Zero Day", MemberIDs: "z1", MemberNames: "Zed Quinn"}}
	})
	m, ctrl := loadedBrowser(t, src, WithInitialSelection(0, "z1"))

	team, ok := ctrl.SelectedTeam()
	require.True(t, ok)
	assert.Equal(t, 0, team.ID)
	assert.True(t, ctrl.IsMemberExpanded("z1"))
	assert.Contains(t, m.View(), "Zed Quinn")
}

func TestBrowserModel_NoInitialSelection(t *testing.T) {
	src := newStubSource()
	src.set(func(s *stubSource) {
		s.teams = []roster.Team{{ID: 0, ProjectName: "Zero Day", MemberIDs: "z1", MemberNames: "Zed Quinn"}}
	})
	_, ctrl := loadedBrowser(t, src)

	_, ok := ctrl.SelectedTeam()
	assert.False(t, ok)
}

func TestBrowserModel_TeamsErrorAndRetry(t *testing.T) {
	src := newStubSource()
	src.set(func(s *stubSource) { s.teamsErr = errors.New("backend down") })
	m, _ := loadedBrowser(t, src)

	assert.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.View(), "backend down")

	src.set(func(s *stubSource) { s.teamsErr = nil })
	cmd := press(t, m, keyRetry)
	assert.Equal(t, ViewStateLoading, m.State())
	run(t, m, cmd)
	assert.Equal(t, ViewStateList, m.State())
}

func TestBrowserModel_SessionExpiry(t *testing.T) {
	expired := make(chan struct{})
	m, ctrl := loadedBrowser(t, newStubSource(), WithSessionExpiry(expired))
	press(t, m, keyEnter)

	close(expired)
	run(t, m, m.waitForExpiry())

	assert.Equal(t, ViewStateExpired, m.State())
	assert.Contains(t, m.View(), "session has expired")
	assert.Empty(t, ctrl.Teams())
	_, selected := ctrl.SelectedTeam()
	assert.False(t, selected)

	assert.Nil(t, press(t, m, keyEnter))
}

func TestBrowserModel_UnauthorizedExpiresSession(t *testing.T) {
	src := newStubSource()
	src.set(func(s *stubSource) { s.teamsErr = source.ErrUnauthorized })
	m, _ := loadedBrowser(t, src)
	assert.Equal(t, ViewStateExpired, m.State())

	src2 := newStubSource()
	src2.set(func(s *stubSource) { s.failures["u1"] = source.ErrUnauthorized })
	m2, ctrl2 := loadedBrowser(t, src2)
	press(t, m2, keyEnter)
	press(t, m2, "down")
	run(t, m2, press(t, m2, keyEnter))
	assert.Equal(t, ViewStateExpired, m2.State())
	assert.Equal(t, cache.Absent, ctrl2.LoadState("u1"))
}

func TestBrowserModel_Quit(t *testing.T) {
	for _, key := range []string{keyQuit, keyCtrlC} {
		m, _ := loadedBrowser(t, newStubSource())
		cmd := press(t, m, key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Equal(t, ViewStateQuitting, m.State())
		assert.Empty(t, m.View())
	}
}

func TestBrowserModel_WindowResize(t *testing.T) {
	m, _ := loadedBrowser(t, newStubSource())
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, 10-chromeHeight, m.list.Height())
}
