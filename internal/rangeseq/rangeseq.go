// Package rangeseq implements a lazy, finite, non-restartable integer range.
//
// A Range yields start, start+1, ..., end-1. Consuming it moves its position
// forward for good: once exhausted it stays exhausted, and values taken by
// Next are not seen again by All or Collect.
package rangeseq

import (
	"iter"
	"math"
	"sync"
)

// Range is a stateful cursor over [start, end). It is safe for concurrent use;
// each value is handed out exactly once.
type Range struct {
	mu  sync.Mutex
	pos int64
	end int64
}

// New returns a range over [start, end). An end at or below start gives an
// empty range.
func New(start, end int64) *Range {
	return &Range{pos: start, end: end}
}

// Next returns the current position and advances. ok is false once the
// position has reached end.
func (r *Range) Next() (v int64, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pos >= r.end {
		return 0, false
	}
	v = r.pos
	r.pos++
	return v, true
}

// Remaining reports how many values are left, capped at math.MaxInt64.
func (r *Range) Remaining() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pos >= r.end {
		return 0
	}
	n := uint64(r.end) - uint64(r.pos)
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

// All adapts the range for use with range-over-func. It shares the cursor:
// breaking out of the loop leaves the rest for later consumers.
func (r *Range) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for {
			v, ok := r.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Collect drains the remaining values into a slice. The preallocation is
// capped so huge ranges grow the slice on demand instead.
func (r *Range) Collect() []int64 {
	out := make([]int64, 0, min(r.Remaining(), maxPrealloc))
	for v := range r.All() {
		out = append(out, v)
	}
	return out
}

const maxPrealloc = 1 << 16
