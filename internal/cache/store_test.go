package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedFetch counts calls and blocks each call until release is closed.
type gatedFetch struct {
	calls   atomic.Int32
	release chan struct{}
	value   string
	err     error
}

func newGatedFetch(value string, err error) *gatedFetch {
	return &gatedFetch{release: make(chan struct{}), value: value, err: err}
}

func (g *gatedFetch) fetch(_ context.Context, _ string) (string, error) {
	g.calls.Add(1)
	<-g.release
	return g.value, g.err
}

func failOnCall(t *testing.T) FetchFunc[string, string] {
	t.Helper()
	return func(_ context.Context, key string) (string, error) {
		t.Errorf("unexpected fetch for %q", key)
		return "", errors.New("unexpected fetch")
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "resolved", Resolved.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestCache_LoadMarksPendingBeforeReturning(t *testing.T) {
	c := New[string, string]()
	g := newGatedFetch("ann", nil)

	flight := c.Load(context.Background(), "u1", g.fetch)

	assert.True(t, flight.Started())
	assert.False(t, flight.Settled())
	assert.Equal(t, Pending, c.State("u1"))
	assert.True(t, c.IsLoading("u1"))
	_, ok := c.Peek("u1")
	assert.False(t, ok)

	close(g.release)
	value, err := flight.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ann", value)

	assert.Equal(t, Resolved, c.State("u1"))
	assert.False(t, c.IsLoading("u1"))
	peeked, ok := c.Peek("u1")
	assert.True(t, ok)
	assert.Equal(t, "ann", peeked)
}

func TestCache_ConcurrentLoadsShareOneFetch(t *testing.T) {
	const callers = 50

	c := New[string, string]()
	g := newGatedFetch("ann", nil)
	ctx := context.Background()

	first := c.Load(ctx, "u1", g.fetch)

	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	flights := make([]*Flight[string], callers)
	for i := range callers {
		flights[i] = c.Load(ctx, "u1", g.fetch)
	}
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = flights[i].Wait(ctx)
		}()
	}

	close(g.release)
	wg.Wait()

	_, err := first.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), g.calls.Load())
	for i := range callers {
		assert.False(t, flights[i].Started())
		require.NoError(t, errs[i])
		assert.Equal(t, "ann", results[i])
	}
}

func TestCache_ConcurrentGetFromManyGoroutines(t *testing.T) {
	c := New[string, string]()
	g := newGatedFetch("bo", nil)
	ctx := context.Background()

	// Hold the first fetch open so every goroutine arrives while it is pending.
	c.Load(ctx, "u2", g.fetch)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get(ctx, "u2", g.fetch)
			assert.NoError(t, err)
			assert.Equal(t, "bo", v)
		}()
	}

	close(g.release)
	wg.Wait()
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestCache_ResolvedIsMemoized(t *testing.T) {
	c := New[string, string]()
	ctx := context.Background()

	v, err := c.Get(ctx, "u1", func(context.Context, string) (string, error) { return "ann", nil })
	require.NoError(t, err)
	require.Equal(t, "ann", v)

	flight := c.Load(ctx, "u1", failOnCall(t))
	assert.True(t, flight.Settled())
	assert.False(t, flight.Started())

	v, err = flight.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann", v)

	v, err = c.Get(ctx, "u1", failOnCall(t))
	require.NoError(t, err)
	assert.Equal(t, "ann", v)
}

func TestCache_FailureIsRecordedAndRetried(t *testing.T) {
	c := New[string, string]()
	ctx := context.Background()
	boom := errors.New("connection refused")

	_, err := c.Get(ctx, "u1", func(context.Context, string) (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)

	assert.Equal(t, Failed, c.State("u1"))
	assert.ErrorIs(t, c.Err("u1"), boom)
	_, ok := c.Peek("u1")
	assert.False(t, ok)

	t.Run("other keys unaffected", func(t *testing.T) {
		v, err := c.Get(ctx, "u2", func(context.Context, string) (string, error) { return "bo", nil })
		require.NoError(t, err)
		assert.Equal(t, "bo", v)
		assert.NoError(t, c.Err("u2"))
	})

	t.Run("next load retries", func(t *testing.T) {
		var calls atomic.Int32
		v, err := c.Get(ctx, "u1", func(context.Context, string) (string, error) {
			calls.Add(1)
			return "ann", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ann", v)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, Resolved, c.State("u1"))
		assert.NoError(t, c.Err("u1"))
	})
}

func TestCache_RetryWhileFailedFlightIsStillRegistered(t *testing.T) {
	c := New[string, string]()
	ctx := context.Background()

	for range 25 {
		_, err := c.Get(ctx, "u1", func(context.Context, string) (string, error) {
			return "", errors.New("nope")
		})
		require.Error(t, err)
	}

	v, err := c.Get(ctx, "u1", func(context.Context, string) (string, error) { return "ann", nil })
	require.NoError(t, err)
	assert.Equal(t, "ann", v)
}

func TestCache_WaitCancellationDoesNotCancelFetch(t *testing.T) {
	c := New[string, string]()
	g := newGatedFetch("ann", nil)

	waitCtx, cancel := context.WithCancel(context.Background())
	flight := c.Load(waitCtx, "u1", g.fetch)
	cancel()

	_, err := flight.Wait(waitCtx)
	require.ErrorIs(t, err, context.Canceled)

	close(g.release)
	require.Eventually(t, func() bool {
		return c.State("u1") == Resolved
	}, time.Second, 5*time.Millisecond)
}

func TestCache_ResetDropsLateResults(t *testing.T) {
	c := New[string, string]()
	g := newGatedFetch("stale", nil)
	ctx := context.Background()

	flight := c.Load(ctx, "u1", g.fetch)
	c.Reset()
	assert.Equal(t, Absent, c.State("u1"))
	assert.Equal(t, 0, c.Len())

	close(g.release)
	v, err := flight.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stale", v)

	assert.Equal(t, Absent, c.State("u1"))
	_, ok := c.Peek("u1")
	assert.False(t, ok)

	fresh, err := c.Get(ctx, "u1", func(context.Context, string) (string, error) { return "fresh", nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", fresh)
}

func TestCache_OnSettle(t *testing.T) {
	type settled struct {
		key string
		err error
	}
	events := make(chan settled, 4)
	c := New(WithOnSettle[string, string](func(key string, err error) {
		events <- settled{key: key, err: err}
	}))
	ctx := context.Background()
	boom := errors.New("boom")

	_, _ = c.Get(ctx, "ok", func(context.Context, string) (string, error) { return "v", nil })
	_, _ = c.Get(ctx, "bad", func(context.Context, string) (string, error) { return "", boom })

	first := <-events
	assert.Equal(t, "ok", first.key)
	assert.NoError(t, first.err)

	second := <-events
	assert.Equal(t, "bad", second.key)
	assert.ErrorIs(t, second.err, boom)
}

func TestCache_Len(t *testing.T) {
	c := New[string, int]()
	ctx := context.Background()
	for _, k := range []string{"a", "b", "a"} {
		_, _ = c.Get(ctx, k, func(context.Context, string) (int, error) { return 1, nil })
	}
	assert.Equal(t, 2, c.Len())
}
