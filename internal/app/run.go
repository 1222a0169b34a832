package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/workerlab/internal/cli"
	"github.com/agbru/workerlab/internal/config"
	apperrors "github.com/agbru/workerlab/internal/errors"
	"github.com/agbru/workerlab/internal/logging"
	"github.com/agbru/workerlab/internal/metrics"
	"github.com/agbru/workerlab/internal/orchestration"
	"github.com/agbru/workerlab/internal/scenario"
	"github.com/agbru/workerlab/internal/server"
)

// runScenario runs the configured mode and renders its report.
func (a *Application) runScenario(ctx context.Context, out io.Writer) int {
	m := metrics.NewMetrics()
	stopServer, err := a.startMetricsServer(ctx, m)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	defer stopServer()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, a.Theme, out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		progressReporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}
	inst := scenario.Instrumentation{
		Logger:      a.logger,
		Metrics:     m,
		Progress:    progressReporter,
		ProgressOut: progressOut,
	}

	presenter := cli.Presenter{Theme: a.Theme, Quiet: a.Config.Quiet}
	start := time.Now()
	switch a.Config.Mode {
	case config.ModeCollect:
		cfg := a.Config.CollectConfig()
		cfg.Instrumentation = inst
		report, err := scenario.Collect(ctx, cfg)
		if err != nil {
			return a.handleRunError(presenter, report.Report, err, start, out)
		}
		presenter.DisplayCollect(report, out)
	default:
		cfg := a.Config.BalanceConfig()
		cfg.Instrumentation = inst
		report, err := scenario.Balance(ctx, cfg)
		if err != nil {
			return a.handleRunError(presenter, report.Report, err, start, out)
		}
		presenter.DisplayBalance(report, out)
	}
	return apperrors.ExitSuccess
}

// handleRunError reports a failed run, with the per-worker table when any
// worker was joined. In quiet mode the message goes to the error writer so
// stdout stays machine-readable.
func (a *Application) handleRunError(p cli.Presenter, r orchestration.Report, err error, start time.Time, out io.Writer) int {
	if p.Quiet {
		out = a.ErrWriter
	} else if len(r.Results) > 0 {
		p.DisplayWorkerTable(r, out)
	}
	return p.HandleError(err, time.Since(start), out)
}

// startMetricsServer serves m on the configured address until the returned
// stop function is called. It is a no-op without -metrics-addr.
func (a *Application) startMetricsServer(ctx context.Context, m *metrics.Metrics) (func(), error) {
	if a.Config.MetricsAddr == "" {
		return func() {}, nil
	}
	srv := server.New(a.Config.MetricsAddr, m, a.logger)
	ln, err := srv.Listen()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx, ln); err != nil {
			a.logger.Error("metrics server stopped", err, logging.String("addr", ln.Addr().String()))
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}
