// Package queue provides an unbounded FIFO that many producers can push to
// concurrently and a single collector drains once production is over.
//
// Synchronization is internal: producers never lock anything themselves.
// DrainAll called while producers are still running is legal and returns a
// valid partial snapshot; callers that need the complete multiset must join
// every producer first.
package queue

import "sync"

// Observer is told about pushes and drains. Calls happen outside the
// queue's lock and may be concurrent.
type Observer interface {
	Pushed()
	Drained(n int)
}

// Option configures a Queue.
type Option func(*config)

type config struct {
	observer Observer
}

// WithObserver attaches an Observer to the queue.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// Queue is an unbounded, concurrency-safe FIFO of T.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	observer Observer
}

// New creates an empty queue.
func New[T any](opts ...Option) *Queue[T] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Queue[T]{observer: cfg.observer}
}

// Push appends v. It never blocks on capacity.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	if q.observer != nil {
		q.observer.Pushed()
	}
}

// DrainAll removes and returns everything currently queued, oldest first.
// The result is never nil; an empty queue yields a zero-length slice.
// Values pushed after the call returns are left for the next drain.
func (q *Queue[T]) DrainAll() []T {
	q.mu.Lock()
	out := q.items
	q.items = nil
	q.mu.Unlock()

	if out == nil {
		out = []T{}
	}
	if q.observer != nil {
		q.observer.Drained(len(out))
	}
	return out
}

// Len reports how many values are waiting.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
