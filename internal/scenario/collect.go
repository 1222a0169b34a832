package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/agbru/workerlab/internal/orchestration"
	"github.com/agbru/workerlab/internal/queue"
	"github.com/agbru/workerlab/internal/worker"
)

// ProducerSpec describes one producer of a collect run: push Operation(x)
// into the named queue for every x in Inputs, in order.
type ProducerSpec struct {
	Name      string
	Queue     string
	Operation worker.Operation
	Inputs    []int64
}

// CollectConfig describes a producer/queue run.
type CollectConfig struct {
	Producers []ProducerSpec
	// Delay is the pause before every step. Zero or negative means none.
	Delay time.Duration
	Instrumentation
}

// DefaultCollectConfig returns the squares/cubes run over [2,3,4,5] with a
// 200ms pace.
func DefaultCollectConfig() CollectConfig {
	inputs := []int64{2, 3, 4, 5}
	return CollectConfig{
		Producers: []ProducerSpec{
			{Name: "squares", Queue: "squares", Operation: worker.Square, Inputs: inputs},
			{Name: "cubes", Queue: "cubes", Operation: worker.Cube, Inputs: inputs},
		},
		Delay: 200 * time.Millisecond,
	}
}

// CollectReport is the outcome of a collect run.
type CollectReport struct {
	// Queues maps each queue name to the values drained after the join.
	Queues map[string][]int64
	// QueueOrder lists queue names in the order they first appear in the
	// configuration.
	QueueOrder []string
	Report     orchestration.Report
}

// Collect runs one producer per spec, joins them all and drains every queue
// exactly once. On failure the queues are still drained so the report shows
// what was produced before the run stopped.
func Collect(ctx context.Context, cfg CollectConfig) (CollectReport, error) {
	names := make([]string, len(cfg.Producers))
	for i, ps := range cfg.Producers {
		names[i] = ps.Name
	}
	if err := checkUniqueNames(names); err != nil {
		return CollectReport{}, err
	}

	var qopts []queue.Option
	if cfg.Metrics != nil {
		qopts = append(qopts, queue.WithObserver(cfg.Metrics))
	}

	queues := make(map[string]*queue.Queue[int64])
	var order []string
	runners := make([]orchestration.Runner, 0, len(cfg.Producers))
	for _, ps := range cfg.Producers {
		q, ok := queues[ps.Queue]
		if !ok {
			q = queue.New[int64](qopts...)
			queues[ps.Queue] = q
			order = append(order, ps.Queue)
		}
		w, err := worker.NewProducer(ps.Name, q, ps.Inputs, ps.Operation, cfg.workerOptions(cfg.Delay)...)
		if err != nil {
			return CollectReport{}, fmt.Errorf("producer %s: %w", ps.Name, err)
		}
		runners = append(runners, w)
	}

	report, runErr := cfg.coordinator().Run(ctx, runners)

	drained := make(map[string][]int64, len(queues))
	for _, name := range order {
		drained[name] = queues[name].DrainAll()
	}
	return CollectReport{Queues: drained, QueueOrder: order, Report: report}, runErr
}
