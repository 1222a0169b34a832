package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/workerlab/internal/errors"
	"github.com/agbru/workerlab/internal/logging"
	"github.com/agbru/workerlab/internal/metrics"
)

const tracerName = "github.com/agbru/workerlab/internal/orchestration"

// ErrAlreadyRun is returned by Run on a coordinator that has already left
// the Created state.
var ErrAlreadyRun = errors.New("coordinator has already run")

// State is the coordinator lifecycle: Created -> Running -> Complete.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// WorkerResult is the outcome of one runner.
type WorkerResult struct {
	Index    int
	ID       string
	Duration time.Duration
	// Err is nil on success. Failures are always an apperrors.WorkerError.
	Err error
}

// Report summarizes a coordinator run. Results are in insertion order.
type Report struct {
	RunID    string
	Results  []WorkerResult
	Duration time.Duration
}

// Failed returns the results that carry an error.
func (r Report) Failed() []WorkerResult {
	var out []WorkerResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) { c.metrics = m }
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) { c.tracer = t }
}

// WithProgressReporter sets the reporter and the writer it renders to.
func WithProgressReporter(r ProgressReporter, out io.Writer) Option {
	return func(c *Coordinator) {
		c.reporter = r
		c.out = out
	}
}

// Coordinator starts a fixed set of runners, joins all of them and reports.
// A Coordinator is single use.
type Coordinator struct {
	mu    sync.Mutex
	state State

	logger   logging.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	reporter ProgressReporter
	out      io.Writer
}

// NewCoordinator creates a coordinator in the Created state.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		logger:   logging.NewNopLogger(),
		reporter: NullProgressReporter{},
		out:      io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run starts every runner in order, each on its own goroutine, and blocks
// until all of them have returned. The first failure cancels the context
// shared by the runners so the rest stop early; Run still waits for every
// one of them before returning that first failure. Results for all runners
// are in the report either way.
func (c *Coordinator) Run(ctx context.Context, runners []Runner) (Report, error) {
	for i, r := range runners {
		if r == nil {
			return Report{}, apperrors.ValidationError{Field: "runners", Message: fmt.Sprintf("runner %d is nil", i)}
		}
	}

	c.mu.Lock()
	if c.state != StateCreated {
		c.mu.Unlock()
		return Report{}, ErrAlreadyRun
	}
	c.state = StateRunning
	c.mu.Unlock()

	runID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "coordinator.run", trace.WithAttributes(
		attribute.String("workerlab.run_id", runID),
		attribute.Int("workerlab.workers", len(runners)),
	))
	defer span.End()

	c.logger.Info("coordinator running",
		logging.String("run_id", runID),
		logging.Int("workers", len(runners)))

	g, gctx := errgroup.WithContext(ctx)
	results := make([]WorkerResult, len(runners))
	progressChan := make(chan ProgressUpdate, len(runners))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go c.reporter.DisplayProgress(&displayWg, progressChan, len(runners), c.out)

	start := time.Now()
	for i, r := range runners {
		g.Go(func() error {
			res := c.runOne(gctx, i, r)
			results[i] = res
			progressChan <- ProgressUpdate{WorkerIndex: i, WorkerID: res.ID, Duration: res.Duration, Err: res.Err}
			return res.Err
		})
	}

	err := g.Wait()
	close(progressChan)
	displayWg.Wait()
	c.setState(StateComplete)

	report := Report{RunID: runID, Results: results, Duration: time.Since(start)}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("coordinator failed", err,
			logging.String("run_id", runID),
			logging.Int("failed", len(report.Failed())))
		return report, err
	}
	c.logger.Info("coordinator complete",
		logging.String("run_id", runID),
		logging.Duration("duration", report.Duration))
	return report, nil
}

// runOne executes a single runner. A panic escaping the runner, including
// one raised by ID on a broken runner, is turned into a failure so the join
// still happens.
func (c *Coordinator) runOne(ctx context.Context, index int, r Runner) (res WorkerResult) {
	id, err := runnerID(r, index)
	res = WorkerResult{Index: index, ID: id}

	ctx, span := c.tracer.Start(ctx, "worker.run", trace.WithAttributes(
		attribute.String("workerlab.worker_id", id),
		attribute.Int("workerlab.worker_index", index),
	))
	c.metrics.WorkerStarted()
	c.logger.Debug("worker started", logging.String("worker", id), logging.Int("index", index))
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			res.Err = apperrors.PanicError{Value: p, Stack: string(debug.Stack())}
		}
		res.Duration = time.Since(start)
		res.Err = asWorkerError(id, res.Err)

		c.metrics.WorkerFinished(res.Duration, res.Err)
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
			c.logger.Error("worker failed", res.Err, logging.String("worker", id))
		} else {
			c.logger.Debug("worker joined", logging.String("worker", id), logging.Duration("duration", res.Duration))
		}
		span.End()
	}()

	if err != nil {
		res.Err = err
		return res
	}
	res.Err = r.Run(ctx)
	return res
}

// runnerID falls back to a positional name when ID panics.
func runnerID(r Runner, index int) (id string, err error) {
	defer func() {
		if p := recover(); p != nil {
			id = fmt.Sprintf("worker-%d", index)
			err = apperrors.PanicError{Value: p, Stack: string(debug.Stack())}
		}
	}()
	return r.ID(), nil
}

func asWorkerError(id string, err error) error {
	if err == nil {
		return nil
	}
	var we apperrors.WorkerError
	if errors.As(err, &we) {
		return err
	}
	return apperrors.WorkerError{WorkerID: id, Step: -1, Cause: err}
}
