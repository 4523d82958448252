// Package profile binds the resource cache to the "profile by member id"
// data source.
package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/rshade/rosterview/internal/cache"
	"github.com/rshade/rosterview/internal/roster"
)

// ErrInvalidKey is returned for a blank member id. It signals a roster
// derivation defect and never reaches the network.
var ErrInvalidKey = errors.New("member id cannot be empty")

// Fetcher retrieves one profile from the backend.
type Fetcher interface {
	FetchProfile(ctx context.Context, memberID string) (roster.Profile, error)
}

// Loader loads profiles through a cache so each member is fetched at most
// once per session.
type Loader struct {
	fetcher Fetcher
	cache   *cache.Cache[string, roster.Profile]
}

// NewLoader creates a Loader over fetcher. Cache options (logger, settle
// callback) are passed through.
func NewLoader(fetcher Fetcher, opts ...cache.Option[string, roster.Profile]) *Loader {
	return &Loader{
		fetcher: fetcher,
		cache:   cache.New(opts...),
	}
}

// Normalize trims memberID and rejects blank ids.
func Normalize(memberID string) (string, error) {
	id := strings.TrimSpace(memberID)
	if id == "" {
		return "", ErrInvalidKey
	}
	return id, nil
}

// Load starts or joins the fetch for memberID, or returns the cached profile.
// It never blocks on the network.
func (l *Loader) Load(ctx context.Context, memberID string) (*cache.Flight[roster.Profile], error) {
	id, err := Normalize(memberID)
	if err != nil {
		return nil, err
	}
	return l.cache.Load(ctx, id, l.fetch), nil
}

// Get loads memberID and waits for the profile.
func (l *Loader) Get(ctx context.Context, memberID string) (roster.Profile, error) {
	flight, err := l.Load(ctx, memberID)
	if err != nil {
		return roster.Profile{}, err
	}
	return flight.Wait(ctx)
}

// Profile returns the cached profile for memberID without fetching.
func (l *Loader) Profile(memberID string) (roster.Profile, bool) {
	return l.cache.Peek(strings.TrimSpace(memberID))
}

// State returns the cache state for memberID.
func (l *Loader) State(memberID string) cache.State {
	return l.cache.State(strings.TrimSpace(memberID))
}

// IsLoading reports whether memberID's profile is being fetched.
func (l *Loader) IsLoading(memberID string) bool {
	return l.cache.IsLoading(strings.TrimSpace(memberID))
}

// Err returns the last fetch error recorded for memberID.
func (l *Loader) Err(memberID string) error {
	return l.cache.Err(strings.TrimSpace(memberID))
}

// Reset forgets every cached profile.
func (l *Loader) Reset() {
	l.cache.Reset()
}

func (l *Loader) fetch(ctx context.Context, id string) (roster.Profile, error) {
	p, err := l.fetcher.FetchProfile(ctx, id)
	if err != nil {
		return roster.Profile{}, err
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}
