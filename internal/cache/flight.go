package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Flight is one caller's handle on a fetch. It is owned by a single waiter;
// every Load returns its own Flight even when the fetch is shared.
type Flight[V any] struct {
	ch      <-chan singleflight.Result
	started bool

	settled bool
	value   V
	err     error
}

// settledFlight returns a flight that already carries its result.
func settledFlight[V any](value V, err error) *Flight[V] {
	return &Flight[V]{settled: true, value: value, err: err}
}

// Started reports whether the Load that produced this flight started a new fetch.
func (f *Flight[V]) Started() bool {
	return f.started
}

// Settled reports whether the result is already known without waiting.
func (f *Flight[V]) Settled() bool {
	return f.settled
}

// Wait blocks until the fetch settles or ctx is done. Cancelling ctx only
// stops this waiter; the fetch itself continues and still commits.
func (f *Flight[V]) Wait(ctx context.Context) (V, error) {
	if f.settled {
		return f.value, f.err
	}

	select {
	case res := <-f.ch:
		f.settled = true
		f.err = res.Err
		if v, ok := res.Val.(V); ok {
			f.value = v
		}
		return f.value, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
