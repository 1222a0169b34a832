// Package worker defines the unit of independent execution used by the
// coordinator. A Worker is composed from a fixed step count, a pacing delay
// and a step function bound to exactly one shared resource.
package worker

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/agbru/workerlab/internal/counter"
	apperrors "github.com/agbru/workerlab/internal/errors"
	"github.com/agbru/workerlab/internal/queue"
)

// StepFunc performs step i and returns the value it produced (the new counter
// value or the pushed value).
type StepFunc func(ctx context.Context, i int) (int64, error)

// StepObserver receives a notification after every completed step. It is a
// diagnostic side channel and has no influence on the run.
type StepObserver interface {
	StepDone(workerID string, step int, value int64)
}

// Option configures a Worker.
type Option func(*Worker)

// WithDelay sets the pause taken before each step. Zero or negative means no pause.
func WithDelay(d time.Duration) Option {
	return func(w *Worker) { w.delay = d }
}

// WithObserver attaches a StepObserver.
func WithObserver(o StepObserver) Option {
	return func(w *Worker) { w.observer = o }
}

// Worker runs a fixed sequence of steps once.
type Worker struct {
	id       string
	steps    int
	delay    time.Duration
	step     StepFunc
	observer StepObserver
}

// New builds a worker from an arbitrary step function.
func New(id string, steps int, step StepFunc, opts ...Option) (*Worker, error) {
	if id == "" {
		return nil, apperrors.ValidationError{Field: "id", Message: "must not be empty"}
	}
	if steps < 0 {
		return nil, apperrors.ValidationError{Field: "steps", Message: "must be non-negative"}
	}
	if step == nil {
		return nil, apperrors.ValidationError{Field: "step", Message: "must not be nil"}
	}
	w := &Worker{id: id, steps: steps, step: step}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// NewDelta builds a worker that applies delta to c, count times.
func NewDelta(id string, c *counter.SharedCounter, delta int64, count int, opts ...Option) (*Worker, error) {
	if c == nil {
		return nil, apperrors.ValidationError{Field: "counter", Message: "must not be nil"}
	}
	return New(id, count, func(ctx context.Context, _ int) (int64, error) {
		return c.ApplyDeltaContext(ctx, delta)
	}, opts...)
}

// NewProducer builds a worker that pushes op(x) to q for every x in inputs,
// in input order. inputs is copied.
func NewProducer(id string, q *queue.Queue[int64], inputs []int64, op Operation, opts ...Option) (*Worker, error) {
	if q == nil {
		return nil, apperrors.ValidationError{Field: "queue", Message: "must not be nil"}
	}
	if op.Apply == nil {
		return nil, apperrors.ValidationError{Field: "operation", Message: "must not be nil"}
	}
	in := append([]int64(nil), inputs...)
	return New(id, len(in), func(_ context.Context, i int) (int64, error) {
		v, err := op.Apply(in[i])
		if err != nil {
			return 0, err
		}
		q.Push(v)
		return v, nil
	}, opts...)
}

// ID returns the worker's identifier.
func (w *Worker) ID() string { return w.id }

// Steps returns the number of steps the worker performs.
func (w *Worker) Steps() int { return w.steps }

// Delay returns the pacing delay.
func (w *Worker) Delay() time.Duration { return w.delay }

// Run performs every step in order. Each step is preceded by the pacing
// delay. The first failing step ends the run with a WorkerError; a panic in a
// step is recovered and reported the same way.
func (w *Worker) Run(ctx context.Context) error {
	for i := 0; i < w.steps; i++ {
		if err := SleepOrDone(ctx, w.delay); err != nil {
			return apperrors.WorkerError{WorkerID: w.id, Step: i, Cause: err}
		}
		v, err := w.runStep(ctx, i)
		if err != nil {
			return apperrors.WorkerError{WorkerID: w.id, Step: i, Cause: err}
		}
		if w.observer != nil {
			w.observer.StepDone(w.id, i, v)
		}
	}
	return nil
}

func (w *Worker) runStep(ctx context.Context, i int) (v int64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return w.step(ctx, i)
}
