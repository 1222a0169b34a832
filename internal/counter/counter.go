// Package counter provides a shared integer guarded by mutual exclusion.
//
// Every read and every read-modify-write of the value happens while the
// guard is held, so M concurrent ApplyDelta calls with deltas d1..dM always
// leave the value at initial + d1 + ... + dM.
package counter

import (
	"context"

	apperrors "github.com/agbru/workerlab/internal/errors"
)

// Observer is notified of every successful mutation while the guard is still
// held, so notifications arrive in mutation order. It must be quick and must
// not call back into the counter.
type Observer interface {
	DeltaApplied(delta, value int64)
}

// Option configures a SharedCounter.
type Option func(*SharedCounter)

// WithObserver attaches an Observer to the counter.
func WithObserver(o Observer) Option {
	return func(c *SharedCounter) { c.observer = o }
}

// SharedCounter is an int64 plus its guard. The guard is a one-slot
// semaphore so that acquisition can also be abandoned through a context.
type SharedCounter struct {
	guard    chan struct{}
	value    int64
	observer Observer
}

// New creates a counter holding initial.
func New(initial int64, opts ...Option) *SharedCounter {
	c := &SharedCounter{
		guard: make(chan struct{}, 1),
		value: initial,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SharedCounter) lock()   { c.guard <- struct{}{} }
func (c *SharedCounter) unlock() { <-c.guard }

func (c *SharedCounter) lockContext(ctx context.Context) error {
	select {
	case c.guard <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ApplyDelta adds d under the guard and returns the new value. Acquisition
// blocks unconditionally. The int64 wraps on overflow; use ApplyDeltaChecked
// when that matters.
func (c *SharedCounter) ApplyDelta(d int64) int64 {
	c.lock()
	defer c.unlock()
	c.value += d
	c.notify(d, c.value)
	return c.value
}

// ApplyDeltaChecked is ApplyDelta with overflow detection. On overflow the
// value is left untouched and apperrors.ErrOverflow is returned.
func (c *SharedCounter) ApplyDeltaChecked(d int64) (int64, error) {
	c.lock()
	return c.addLocked(d)
}

// ApplyDeltaContext is ApplyDeltaChecked with a cancellable acquisition.
// If ctx is done before the guard is acquired the value is untouched and
// the context error is returned.
func (c *SharedCounter) ApplyDeltaContext(ctx context.Context, d int64) (int64, error) {
	if err := c.lockContext(ctx); err != nil {
		return 0, apperrors.WrapError(err, "acquire counter guard")
	}
	return c.addLocked(d)
}

// addLocked must be called with the guard held; it releases it.
func (c *SharedCounter) addLocked(d int64) (int64, error) {
	defer c.unlock()
	sum := c.value + d
	if (d > 0 && sum < c.value) || (d < 0 && sum > c.value) {
		return c.value, apperrors.ErrOverflow
	}
	c.value = sum
	c.notify(d, sum)
	return sum, nil
}

// Value reads the current value under the guard.
func (c *SharedCounter) Value() int64 {
	c.lock()
	defer c.unlock()
	return c.value
}

func (c *SharedCounter) notify(d, v int64) {
	if c.observer != nil {
		c.observer.DeltaApplied(d, v)
	}
}
