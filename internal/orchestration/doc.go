// Package orchestration coordinates the concurrent execution of workers.
// A Coordinator starts a fixed set of runners, acts as a join barrier for
// all of them and reports per-worker outcomes. Presentation is decoupled via
// the ProgressReporter interface.
package orchestration
