// Package offload runs blocking calls on a bounded worker pool so that
// cooperatively scheduled callers can await them without tying up their own
// scheduling context.
package offload

import "context"

// DefaultWorkers is the slot count of the package-level pool.
const DefaultWorkers = 8

// Pool bounds how many offloaded calls may run at once.
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with the given number of worker slots. A
// non-positive count falls back to DefaultWorkers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{slots: make(chan struct{}, workers)}
}

var defaultPool = NewPool(DefaultWorkers)

// Default returns the shared package-level pool.
func Default() *Pool {
	return defaultPool
}

// Do runs fn on one of p's worker slots and waits for it to finish. When ctx
// is done first, Do returns ctx.Err() and abandons the wait: fn is never
// cancelled, it keeps running to completion on its slot and its result is
// discarded.
func Do[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	var zero T

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		defer func() { <-p.slots }()
		value, err := fn()
		done <- result{value, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
