package orchestration

// ProgressAggregator folds per-worker join updates into run-level progress.
// Both the CLI spinner and tests use it so the counting logic lives in one place.
type ProgressAggregator struct {
	numWorkers int
	done       int
	failed     int
}

// NewProgressAggregator creates a new aggregator for the given number
// of workers. Returns nil if numWorkers <= 0.
func NewProgressAggregator(numWorkers int) *ProgressAggregator {
	if numWorkers <= 0 {
		return nil
	}
	return &ProgressAggregator{numWorkers: numWorkers}
}

// AggregatedProgress holds the result of processing a single update.
type AggregatedProgress struct {
	// WorkerID is the worker that was just joined.
	WorkerID string
	// Done is the number of workers joined so far.
	Done int
	// Failed is the number of joined workers that reported an error.
	Failed int
	// Total is the number of workers in the run.
	Total int
	// Fraction is Done/Total in [0, 1].
	Fraction float64
}

// Update records one joined worker and returns the new totals.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	if a.done < a.numWorkers {
		a.done++
	}
	if update.Err != nil {
		a.failed++
	}
	return AggregatedProgress{
		WorkerID: update.WorkerID,
		Done:     a.done,
		Failed:   a.failed,
		Total:    a.numWorkers,
		Fraction: float64(a.done) / float64(a.numWorkers),
	}
}

// NumWorkers returns the number of workers being tracked.
func (a *ProgressAggregator) NumWorkers() int {
	return a.numWorkers
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
