package cache

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// FetchFunc produces the value for key. It runs on a context detached from
// the caller's cancellation, so a fetch always settles its own key.
type FetchFunc[K ~string, V any] func(ctx context.Context, key K) (V, error)

// SettleFunc is notified after a fetch commits its result to the cache.
type SettleFunc[K ~string] func(key K, err error)

// Option configures a Cache.
type Option[K ~string, V any] func(*Cache[K, V])

// WithLogger sets the logger used for fetch lifecycle events.
func WithLogger[K ~string, V any](logger zerolog.Logger) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.logger = logger
	}
}

// WithOnSettle registers a callback invoked outside the cache lock after
// every committed fetch. Results dropped by Reset are not reported.
func WithOnSettle[K ~string, V any](fn SettleFunc[K]) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onSettle = fn
	}
}

// Cache memoizes asynchronously fetched values per key.
// Thread-safe for concurrent access.
type Cache[K ~string, V any] struct {
	// mu protects entries and generation.
	mu      sync.RWMutex
	entries map[K]*entry[V]

	// generation is bumped by Reset so late fetches cannot write into a
	// fresh session.
	generation uint64

	// flights deduplicates concurrent fetches of one key.
	flights singleflight.Group

	onSettle SettleFunc[K]
	logger   zerolog.Logger
}

// New creates an empty cache.
func New[K ~string, V any](opts ...Option[K, V]) *Cache[K, V] {
	c := &Cache[K, V]{
		entries: make(map[K]*entry[V]),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns a Flight for key without blocking.
//
//   - Resolved: the flight is already settled with the cached value; fetch is not called.
//   - Pending: the flight joins the fetch already in progress.
//   - Absent or Failed: the entry moves to Pending and fetch is started once.
//
// The Pending transition is committed before Load returns.
func (c *Cache[K, V]) Load(ctx context.Context, key K, fetch FetchFunc[K, V]) *Flight[V] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok {
		switch e.state {
		case Resolved:
			return settledFlight(e.value, nil)
		case Pending:
			// The flight registered for key cannot finish committing while we
			// hold mu, so DoChan is guaranteed to join it and ignore this closure.
			ch := c.flights.DoChan(string(key), c.run(ctx, key, fetch, e.generation))
			return &Flight[V]{ch: ch}
		case Absent, Failed:
		}
	}

	gen := c.generation
	c.entries[key] = &entry[V]{state: Pending, generation: gen}

	// A failed flight may still be registered between its commit and its
	// return; forget it so this call starts a fresh fetch.
	c.flights.Forget(string(key))
	ch := c.flights.DoChan(string(key), c.run(ctx, key, fetch, gen))

	c.logger.Debug().Str("key", string(key)).Msg("fetch started")
	return &Flight[V]{ch: ch, started: true}
}

// Get loads key and waits for the result.
func (c *Cache[K, V]) Get(ctx context.Context, key K, fetch FetchFunc[K, V]) (V, error) {
	return c.Load(ctx, key, fetch).Wait(ctx)
}

// Peek returns the resolved value for key without triggering a fetch.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[key]; ok && e.state == Resolved {
		return e.value, true
	}
	var zero V
	return zero, false
}

// State returns the lifecycle state of key.
func (c *Cache[K, V]) State(key K) State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[key]; ok {
		return e.state
	}
	return Absent
}

// IsLoading reports whether a fetch for key is in flight.
func (c *Cache[K, V]) IsLoading(key K) bool {
	return c.State(key) == Pending
}

// Err returns the error of the last failed fetch for key, or nil.
func (c *Cache[K, V]) Err(key K) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[key]; ok && e.state == Failed {
		return e.err
	}
	return nil
}

// Len returns the number of known keys in any state.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Reset drops every entry. Fetches still in flight settle their waiters but
// do not write into the cache.
func (c *Cache[K, V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.entries = make(map[K]*entry[V])
}

// run wraps fetch into the singleflight function that commits its result.
func (c *Cache[K, V]) run(ctx context.Context, key K, fetch FetchFunc[K, V], gen uint64) func() (any, error) {
	fetchCtx := context.WithoutCancel(ctx)
	return func() (any, error) {
		value, err := fetch(fetchCtx, key)
		c.settle(key, gen, value, err)
		return value, err
	}
}

// settle commits a fetch result unless the cache was reset since it started.
func (c *Cache[K, V]) settle(key K, gen uint64, value V, err error) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug().Str("key", string(key)).Msg("dropping result fetched before reset")
		return
	}

	if err != nil {
		c.entries[key] = &entry[V]{state: Failed, err: err, generation: gen}
	} else {
		c.entries[key] = &entry[V]{state: Resolved, value: value, generation: gen}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn().Err(err).Str("key", string(key)).Msg("fetch failed")
	} else {
		c.logger.Debug().Str("key", string(key)).Msg("fetch resolved")
	}

	if c.onSettle != nil {
		c.onSettle(key, err)
	}
}
