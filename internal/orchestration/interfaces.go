//go:generate mockgen -destination=mocks/mock_runner.go -package=mocks github.com/agbru/workerlab/internal/orchestration Runner

package orchestration

import (
	"context"
	"io"
	"sync"
	"time"
)

// Runner is a unit of independent execution the coordinator can start and
// join. *worker.Worker implements it.
type Runner interface {
	// ID identifies the runner in results, logs and spans.
	ID() string
	// Run performs the runner's whole task and returns when it is finished.
	Run(ctx context.Context) error
}

// ProgressUpdate is emitted once per runner, when it has been joined.
type ProgressUpdate struct {
	// WorkerIndex is the runner's position in the slice given to Run.
	WorkerIndex int
	// WorkerID is the runner's identifier.
	WorkerID string
	// Duration is how long the runner took.
	Duration time.Duration
	// Err is the runner's failure, if any.
	Err error
}

// ProgressReporter defines the interface for displaying run progress.
// This interface decouples the orchestration layer from the presentation layer.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed and then
	// calls wg.Done.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numWorkers int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numWorkers int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numWorkers int, out io.Writer) {
	f(wg, progressChan, numWorkers, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}
