// Package selection orchestrates team selection, member disclosure and
// lazy profile loading for the rendering layer.
//
// The Controller is the only component that depends on all the others. Its
// commands never return errors; failures become observable state that the
// renderer queries (TeamsErr, RosterFor, ProfileErr, LoadState).
package selection

import (
	"context"
	"runtime"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/rosterview/internal/cache"
	"github.com/rshade/rosterview/internal/disclosure"
	"github.com/rshade/rosterview/internal/profile"
	"github.com/rshade/rosterview/internal/roster"
	"github.com/rshade/rosterview/internal/source"
)

// rosterResult memoizes one team's derivation, including its failure.
type rosterResult struct {
	members []roster.Member
	err     error
}

// Controller holds the session state behind the team browser.
// Thread-safe: commands are applied in call order and readers never observe
// a half-applied command.
type Controller struct {
	mu sync.Mutex

	source source.Source
	loader *profile.Loader
	tree   disclosure.Tree

	teams        []roster.Team
	teamsErr     error
	teamsLoaded  bool
	teamsLoading bool
	rosters      map[int]rosterResult

	// generation is bumped by Reset so an in-flight team fetch from the
	// previous session is discarded.
	generation uint64

	separators       string
	prefetchLimit    int
	logger           zerolog.Logger
	onProfileSettled func(memberID string, err error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithSeparators sets the runes that delimit the raw member fields.
func WithSeparators(separators string) Option {
	return func(c *Controller) {
		c.separators = separators
	}
}

// WithPrefetchConcurrency bounds the number of concurrent fetches in Prefetch.
func WithPrefetchConcurrency(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.prefetchLimit = n
		}
	}
}

// WithLogger sets the controller logger. The profile cache logs through it too.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithProfileSettled registers a callback run after every profile fetch
// commits. It must not call back into the Controller synchronously.
func WithProfileSettled(fn func(memberID string, err error)) Option {
	return func(c *Controller) {
		c.onProfileSettled = fn
	}
}

// New creates a controller reading from src.
func New(src source.Source, opts ...Option) *Controller {
	c := &Controller{
		source:        src,
		rosters:       make(map[int]rosterResult),
		separators:    roster.DefaultSeparators,
		prefetchLimit: runtime.NumCPU(),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.loader = profile.NewLoader(src,
		cache.WithLogger[string, roster.Profile](c.logger),
		cache.WithOnSettle[string, roster.Profile](func(memberID string, err error) {
			if c.onProfileSettled != nil {
				c.onProfileSettled(memberID, err)
			}
		}),
	)
	return c
}

// LoadTeams fetches the team list once per session. It blocks on the
// network without holding the controller lock. A failed load is recorded in
// TeamsErr and may be retried; after a successful load it is a no-op.
func (c *Controller) LoadTeams(ctx context.Context) {
	c.mu.Lock()
	if c.teamsLoaded || c.teamsLoading {
		c.mu.Unlock()
		return
	}
	c.teamsLoading = true
	gen := c.generation
	c.mu.Unlock()

	teams, err := c.source.FetchAllTeams(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.logger.Debug().Msg("discarding team list fetched before reset")
		return
	}
	c.teamsLoading = false
	if err != nil {
		c.teamsErr = err
		c.logger.Error().Ctx(ctx).Err(err).Msg("loading teams failed")
		return
	}

	c.teams = teams
	c.teamsErr = nil
	c.teamsLoaded = true
	c.logger.Info().Ctx(ctx).Int("teams", len(teams)).Msg("teams loaded")
}

// SelectTeam selects teamID and collapses the member level. Unknown ids are
// ignored and reported as false.
func (c *Controller) SelectTeam(teamID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.findTeamLocked(teamID); !ok {
		return false
	}
	c.tree.SelectTeam(teamID)
	c.deriveLocked(teamID)
	return true
}

// ToggleTeam selects teamID or deselects it when already selected. It
// returns true when the team ends up selected.
func (c *Controller) ToggleTeam(teamID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.findTeamLocked(teamID); !ok {
		return false
	}
	expanded := c.tree.ToggleTeam(teamID)
	if expanded {
		c.deriveLocked(teamID)
	}
	return expanded
}

// ToggleMember collapses memberID if expanded, otherwise expands it and
// starts (or joins, or reuses) its profile load. The returned flight is nil
// when nothing was loaded: on collapse, when memberID is not on the selected
// roster, or when its id is blank.
func (c *Controller) ToggleMember(ctx context.Context, memberID string) *cache.Flight[roster.Profile] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.onCurrentRosterLocked(memberID) {
		c.logger.Debug().Str("member", memberID).Msg("ignoring toggle for member outside selected roster")
		return nil
	}
	if !c.tree.ToggleMember(memberID) {
		return nil
	}
	return c.loadLocked(ctx, memberID)
}

// CollapseMember collapses the expanded member, if any.
func (c *Controller) CollapseMember() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree.CollapseMember()
}

// RetryProfile reloads memberID's profile after a failure. Cached and
// in-flight profiles are returned without a new fetch.
func (c *Controller) RetryProfile(ctx context.Context, memberID string) *cache.Flight[roster.Profile] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx, memberID)
}

// Prefetch loads every profile on the selected roster with bounded
// concurrency and waits for them. It returns the first failure; every
// failure stays observable per member.
func (c *Controller) Prefetch(ctx context.Context) error {
	c.mu.Lock()
	members, _ := c.currentRosterLocked()
	limit := c.prefetchLimit
	c.mu.Unlock()

	g := new(errgroup.Group)
	g.SetLimit(limit)
	for _, m := range members {
		if _, err := profile.Normalize(m.ID); err != nil {
			continue
		}
		g.Go(func() error {
			_, err := c.loader.Get(ctx, m.ID)
			return err
		})
	}
	return g.Wait()
}

// Reset returns the controller to its initial empty state: no teams, nothing
// selected, no cached profiles. Used when the session expires.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.teams = nil
	c.teamsErr = nil
	c.teamsLoaded = false
	c.teamsLoading = false
	c.rosters = make(map[int]rosterResult)
	c.tree.Reset()
	c.loader.Reset()
	c.logger.Info().Msg("session state reset")
}

func (c *Controller) loadLocked(ctx context.Context, memberID string) *cache.Flight[roster.Profile] {
	flight, err := c.loader.Load(ctx, memberID)
	if err != nil {
		c.logger.Warn().Err(err).Str("member", memberID).Msg("profile not requested")
		return nil
	}
	return flight
}

func (c *Controller) findTeamLocked(teamID int) (roster.Team, bool) {
	idx := slices.IndexFunc(c.teams, func(t roster.Team) bool { return t.ID == teamID })
	if idx < 0 {
		return roster.Team{}, false
	}
	return c.teams[idx], true
}

func (c *Controller) deriveLocked(teamID int) rosterResult {
	if res, ok := c.rosters[teamID]; ok {
		return res
	}
	team, ok := c.findTeamLocked(teamID)
	if !ok {
		return rosterResult{}
	}

	members, err := roster.DeriveWith(team, c.separators)
	if err != nil {
		c.logger.Warn().Err(err).Int("team", teamID).Msg("team roster is malformed")
	}
	res := rosterResult{members: members, err: err}
	c.rosters[teamID] = res
	return res
}

func (c *Controller) currentRosterLocked() ([]roster.Member, error) {
	teamID, ok := c.tree.SelectedTeam()
	if !ok {
		return nil, nil
	}
	res := c.deriveLocked(teamID)
	return res.members, res.err
}

func (c *Controller) onCurrentRosterLocked(memberID string) bool {
	members, _ := c.currentRosterLocked()
	return slices.ContainsFunc(members, func(m roster.Member) bool { return m.ID == memberID })
}
