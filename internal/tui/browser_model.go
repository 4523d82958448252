package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/rosterview/internal/cache"
	"github.com/rshade/rosterview/internal/roster"
	"github.com/rshade/rosterview/internal/selection"
	"github.com/rshade/rosterview/internal/source"
	listview "github.com/rshade/rosterview/internal/tui/list"
)

// Messages for BrowserModel.
type (
	teamsLoadedMsg    struct{}
	profileSettledMsg struct {
		memberID string
		err      error
	}
	prefetchDoneMsg struct {
		err error
	}
	sessionExpiredMsg struct{}
)

// BrowserModel is the Bubble Tea model for the interactive team browser.
// All session state lives in the controller; the model only turns keys into
// controller commands and controller state into rows.
type BrowserModel struct {
	ctx  context.Context
	ctrl *selection.Controller

	state   ViewState
	list    *listview.Model[row]
	loading *LoadingState
	printer *message.Printer

	width  int
	height int

	expired          <-chan struct{}
	prefetchOnSelect bool
	hasInitial       bool
	initialTeam      int
	initialMember    string
	status           string
	err              error

	logger zerolog.Logger
}

// BrowserOption configures a BrowserModel.
type BrowserOption func(*BrowserModel)

// WithSessionExpiry ends the session when expired is closed.
func WithSessionExpiry(expired <-chan struct{}) BrowserOption {
	return func(m *BrowserModel) { m.expired = expired }
}

// WithInitialSelection opens teamID, and memberID within it, once teams load.
func WithInitialSelection(teamID int, memberID string) BrowserOption {
	return func(m *BrowserModel) {
		m.hasInitial = true
		m.initialTeam = teamID
		m.initialMember = memberID
	}
}

// WithPrefetchOnSelect loads every profile of a team when it is opened.
func WithPrefetchOnSelect(enabled bool) BrowserOption {
	return func(m *BrowserModel) { m.prefetchOnSelect = enabled }
}

// WithLanguage sets the language used to format counts.
func WithLanguage(tag language.Tag) BrowserOption {
	return func(m *BrowserModel) { m.printer = message.NewPrinter(tag) }
}

// WithBrowserLogger sets the model logger.
func WithBrowserLogger(logger zerolog.Logger) BrowserOption {
	return func(m *BrowserModel) { m.logger = logger }
}

// NewBrowserModel creates a browser over ctrl. It starts in the loading
// state; Init fetches the team list.
func NewBrowserModel(ctx context.Context, ctrl *selection.Controller, opts ...BrowserOption) *BrowserModel {
	m := &BrowserModel{
		ctx:     ctx,
		ctrl:    ctrl,
		state:   ViewStateLoading,
		loading: NewLoadingState("Loading teams..."),
		printer: message.NewPrinter(language.English),
		width:   defaultWidth,
		height:  defaultHeight,
		logger:  zerolog.Nop(),
	}
	m.list = listview.New(m.height-chromeHeight, renderRow, listview.WithSelectable(row.selectable))
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current view state.
func (m *BrowserModel) State() ViewState {
	return m.state
}

// Init starts the spinner, the team fetch and the expiry watch.
func (m *BrowserModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.loadTeams(), m.waitForExpiry())
}

// Update handles messages and updates the model state.
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetHeight(m.height - chromeHeight)
		return m, nil

	case spinner.TickMsg:
		cmd := m.loading.Update(msg)
		m.refresh()
		return m, cmd

	case teamsLoadedMsg:
		return m.handleTeamsLoaded()

	case profileSettledMsg:
		if errors.Is(msg.err, source.ErrUnauthorized) {
			return m.expire()
		}
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Str("member", msg.memberID).Msg("profile fetch failed")
		}
		m.refresh()
		return m, nil

	case prefetchDoneMsg:
		return m.handlePrefetchDone(msg)

	case sessionExpiredMsg:
		return m.expire()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *BrowserModel) handleTeamsLoaded() (tea.Model, tea.Cmd) {
	if m.state == ViewStateExpired {
		return m, nil
	}
	if err := m.ctrl.TeamsErr(); err != nil {
		if errors.Is(err, source.ErrUnauthorized) {
			return m.expire()
		}
		m.err = err
		m.state = ViewStateError
		return m, nil
	}

	m.err = nil
	m.state = ViewStateList
	m.refresh()

	var cmds []tea.Cmd
	if m.hasInitial {
		cmds = append(cmds, m.openInitialSelection())
		m.hasInitial = false
	}
	return m, tea.Batch(cmds...)
}

func (m *BrowserModel) openInitialSelection() tea.Cmd {
	if !m.ctrl.SelectTeam(m.initialTeam) {
		m.status = fmt.Sprintf("team %d not found", m.initialTeam)
		return nil
	}
	teamID := m.initialTeam
	m.refresh()
	m.list.Select(func(r row) bool { return r.kind == rowTeam && r.teamID == teamID })

	var cmds []tea.Cmd
	if m.prefetchOnSelect {
		cmds = append(cmds, m.prefetch())
	}
	if m.initialMember != "" {
		memberID := m.initialMember
		cmds = append(cmds, m.waitForProfile(memberID, m.ctrl.ToggleMember(m.ctx, memberID)))
		m.refresh()
		m.list.Select(func(r row) bool { return r.kind == rowMember && r.memberID == memberID })
	}
	return tea.Batch(cmds...)
}

func (m *BrowserModel) handlePrefetchDone(msg prefetchDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, source.ErrUnauthorized) {
		return m.expire()
	}
	if msg.err != nil {
		m.status = CriticalStyle.Render("some profiles failed to load")
	} else {
		m.status = OKStyle.Render("all profiles loaded")
	}
	m.refresh()
	return m, nil
}

//nolint:exhaustive // Only the listed states take keys beyond quit.
func (m *BrowserModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	switch m.state {
	case ViewStateError:
		if msg.String() == keyRetry {
			m.state = ViewStateLoading
			m.err = nil
			return m, m.loadTeams()
		}
	case ViewStateList:
		return m.handleListKey(msg)
	}
	return m, nil
}

func (m *BrowserModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.HandleKey(msg) {
		return m, nil
	}

	current, ok := m.list.Selected()
	switch msg.String() {
	case keyEnter, keySpace:
		if !ok {
			return m, nil
		}
		return m, m.activate(current)
	case keyEsc:
		m.collapse()
	case keyRetry:
		if ok && current.kind == rowMember {
			return m, m.retry(current.memberID)
		}
	case keyPrefetch:
		m.status = "loading all profiles..."
		return m, m.prefetch()
	}
	m.refresh()
	return m, nil
}

func (m *BrowserModel) activate(r row) tea.Cmd {
	m.status = ""
	switch r.kind {
	case rowTeam:
		opened := m.ctrl.ToggleTeam(r.teamID)
		m.refresh()
		if opened && m.prefetchOnSelect {
			return m.prefetch()
		}
	case rowMember:
		flight := m.ctrl.ToggleMember(m.ctx, r.memberID)
		m.refresh()
		return m.waitForProfile(r.memberID, flight)
	}
	return nil
}

func (m *BrowserModel) collapse() {
	if _, ok := m.ctrl.ExpandedMemberID(); ok {
		m.ctrl.CollapseMember()
		return
	}
	if team, ok := m.ctrl.SelectedTeam(); ok {
		m.ctrl.ToggleTeam(team.ID)
		m.list.Select(func(r row) bool { return r.kind == rowTeam && r.teamID == team.ID })
	}
}

func (m *BrowserModel) retry(memberID string) tea.Cmd {
	if m.ctrl.LoadState(memberID) != cache.Failed {
		return nil
	}
	flight := m.ctrl.RetryProfile(m.ctx, memberID)
	m.refresh()
	return m.waitForProfile(memberID, flight)
}

// expire drops all session state and shows the expired screen.
func (m *BrowserModel) expire() (tea.Model, tea.Cmd) {
	if m.state == ViewStateExpired {
		return m, nil
	}
	m.logger.Warn().Msg("session expired, clearing browser state")
	m.ctrl.Reset()
	m.state = ViewStateExpired
	m.list.SetItems(nil, nil)
	return m, nil
}

// refresh rebuilds the rows from the controller, keeping the cursor on the
// same team or member.
func (m *BrowserModel) refresh() {
	if m.state != ViewStateList {
		return
	}
	m.list.SetItems(buildRows(m.ctrl, m.printer, m.loading.Frame()), sameRow)
}

func (m *BrowserModel) loadTeams() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.LoadTeams(ctx)
		return teamsLoadedMsg{}
	}
}

func (m *BrowserModel) waitForProfile(memberID string, flight *cache.Flight[roster.Profile]) tea.Cmd {
	if flight == nil || flight.Settled() {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		_, err := flight.Wait(ctx)
		return profileSettledMsg{memberID: memberID, err: err}
	}
}

func (m *BrowserModel) prefetch() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return prefetchDoneMsg{err: ctrl.Prefetch(ctx)}
	}
}

func (m *BrowserModel) waitForExpiry() tea.Cmd {
	if m.expired == nil {
		return nil
	}
	ctx, expired := m.ctx, m.expired
	return func() tea.Msg {
		select {
		case <-expired:
			return sessionExpiredMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// View renders the current screen.
func (m *BrowserModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return RenderLoading(m.loading)
	case ViewStateError:
		return BoxStyle.Render(fmt.Sprintf("Could not load teams:\n%v\n\n%s",
			m.err, SubtleStyle.Render("press r to retry, q to quit")))
	case ViewStateExpired:
		return BoxStyle.Render("Your session has expired.\nRun `rosterview login` to sign in again.\n\n" +
			SubtleStyle.Render("press q to quit"))
	case ViewStateList:
		return m.renderList()
	default:
		return ""
	}
}

func (m *BrowserModel) renderList() string {
	var b strings.Builder
	teams := len(m.ctrl.Teams())
	b.WriteString(HeaderStyle.Render(m.printer.Sprintf("Teams (%d)", teams)))
	b.WriteString("\n")

	if teams == 0 {
		b.WriteString(SubtleStyle.Render("no teams yet"))
	} else {
		b.WriteString(m.list.View())
	}

	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.status + "  ")
	}
	b.WriteString(SubtleStyle.Render(helpLine))
	return b.String()
}
