// Package scenario assembles workers, shared resources and a coordinator into
// complete runs. Every run owns its resources: nothing is shared between runs.
package scenario

import (
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/workerlab/internal/errors"
	"github.com/agbru/workerlab/internal/logging"
	"github.com/agbru/workerlab/internal/metrics"
	"github.com/agbru/workerlab/internal/orchestration"
	"github.com/agbru/workerlab/internal/worker"
)

// Instrumentation carries the optional observability hooks of a run. The
// zero value runs silently.
type Instrumentation struct {
	Logger   logging.Logger
	Metrics  *metrics.Metrics
	Progress orchestration.ProgressReporter
	// ProgressOut is where Progress renders. Defaults to io.Discard.
	ProgressOut io.Writer
}

func (in Instrumentation) coordinator() *orchestration.Coordinator {
	var opts []orchestration.Option
	if in.Logger != nil {
		opts = append(opts, orchestration.WithLogger(in.Logger))
	}
	if in.Metrics != nil {
		opts = append(opts, orchestration.WithMetrics(in.Metrics))
	}
	if in.Progress != nil {
		out := in.ProgressOut
		if out == nil {
			out = io.Discard
		}
		opts = append(opts, orchestration.WithProgressReporter(in.Progress, out))
	}
	return orchestration.NewCoordinator(opts...)
}

func (in Instrumentation) workerOptions(delay time.Duration) []worker.Option {
	opts := []worker.Option{worker.WithDelay(delay)}
	if in.Logger != nil {
		opts = append(opts, worker.WithObserver(worker.NewLogObserver(in.Logger)))
	}
	return opts
}

func checkUniqueNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("duplicate worker name %q", n)}
		}
		seen[n] = struct{}{}
	}
	return nil
}
