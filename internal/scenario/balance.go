package scenario

import (
	"context"
	"time"

	"github.com/agbru/workerlab/internal/counter"
	apperrors "github.com/agbru/workerlab/internal/errors"
	"github.com/agbru/workerlab/internal/orchestration"
	"github.com/agbru/workerlab/internal/worker"
)

// DeltaSpec describes one worker of a balance run: apply Delta, Count times.
type DeltaSpec struct {
	Name  string
	Delta int64
	Count int
}

// BalanceConfig describes a shared-counter run.
type BalanceConfig struct {
	Initial int64
	Workers []DeltaSpec
	// Delay is the pause before every step. Zero or negative means none.
	Delay time.Duration
	Instrumentation
}

// DefaultBalanceConfig returns the classic deposit/withdrawal run: 200 plus
// five +1 steps and three -1 steps, paced at 10ms.
func DefaultBalanceConfig() BalanceConfig {
	return BalanceConfig{
		Initial: 200,
		Workers: []DeltaSpec{
			{Name: "deposit", Delta: 1, Count: 5},
			{Name: "withdrawal", Delta: -1, Count: 3},
		},
		Delay: 10 * time.Millisecond,
	}
}

// BalanceReport is the outcome of a balance run.
type BalanceReport struct {
	Initial int64
	// Final is the counter read once, after every worker was joined.
	Final int64
	// Expected is Initial plus every worker's Delta*Count.
	Expected int64
	Report   orchestration.Report
}

// Consistent reports whether no update was lost.
func (r BalanceReport) Consistent() bool { return r.Final == r.Expected }

// Balance runs one delta worker per spec against a fresh counter and reads
// the result after the join. On failure the report still carries the value
// observed after every worker returned.
func Balance(ctx context.Context, cfg BalanceConfig) (BalanceReport, error) {
	expected, err := expectedTotal(cfg.Initial, cfg.Workers)
	if err != nil {
		return BalanceReport{}, err
	}
	names := make([]string, len(cfg.Workers))
	for i, ws := range cfg.Workers {
		names[i] = ws.Name
	}
	if err := checkUniqueNames(names); err != nil {
		return BalanceReport{}, err
	}

	var copts []counter.Option
	if cfg.Metrics != nil {
		copts = append(copts, counter.WithObserver(cfg.Metrics))
	}
	c := counter.New(cfg.Initial, copts...)

	runners := make([]orchestration.Runner, 0, len(cfg.Workers))
	for _, ws := range cfg.Workers {
		w, err := worker.NewDelta(ws.Name, c, ws.Delta, ws.Count, cfg.workerOptions(cfg.Delay)...)
		if err != nil {
			return BalanceReport{}, err
		}
		runners = append(runners, w)
	}

	report, runErr := cfg.coordinator().Run(ctx, runners)
	return BalanceReport{
		Initial:  cfg.Initial,
		Final:    c.Value(),
		Expected: expected,
		Report:   report,
	}, runErr
}

func expectedTotal(initial int64, specs []DeltaSpec) (int64, error) {
	total := initial
	for _, ws := range specs {
		if ws.Count < 0 {
			return 0, apperrors.ValidationError{Field: "count", Message: "worker " + ws.Name + " has a negative step count"}
		}
		step := ws.Delta * int64(ws.Count)
		if ws.Count != 0 && step/int64(ws.Count) != ws.Delta {
			return 0, apperrors.ValidationError{Field: "workers", Message: "expected total overflows int64"}
		}
		sum := total + step
		if (step > 0 && sum < total) || (step < 0 && sum > total) {
			return 0, apperrors.ValidationError{Field: "workers", Message: "expected total overflows int64"}
		}
		total = sum
	}
	return total, nil
}
