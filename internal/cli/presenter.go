package cli

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	apperrors "github.com/agbru/workerlab/internal/errors"
	"github.com/agbru/workerlab/internal/orchestration"
	"github.com/agbru/workerlab/internal/scenario"
	"github.com/agbru/workerlab/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar while workers run.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numWorkers int, out io.Writer) {
	DisplayProgress(wg, progressChan, numWorkers, out)
}

// Presenter renders run reports for the terminal.
type Presenter struct {
	Theme ui.Theme
	// Quiet prints only the result values, for scripts.
	Quiet bool
}

// DisplayWorkerTable prints one row per worker with its duration and status.
func (p Presenter) DisplayWorkerTable(report orchestration.Report, out io.Writer) {
	fmt.Fprintf(out, "\n--- Workers ---\n")

	maxNameLen := len("Worker")
	maxDurationLen := len("Duration")
	durations := make([]string, len(report.Results))
	for i, res := range report.Results {
		if len(res.ID) > maxNameLen {
			maxNameLen = len(res.ID)
		}
		durations[i] = FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			durations[i] = "< 1µs"
		}
		if n := utf8.RuneCountInString(durations[i]); n > maxDurationLen {
			maxDurationLen = n
		}
	}

	// Padding is computed on the raw text; styled text carries escape codes.
	fmt.Fprintf(out, "%s%s   %s%s   %s\n",
		p.Theme.RenderHeader("Worker"), padRight("", maxNameLen-len("Worker")),
		p.Theme.RenderHeader("Duration"), padRight("", maxDurationLen-len("Duration")),
		p.Theme.RenderHeader("Status"))

	for i, res := range report.Results {
		var status string
		if res.Err != nil {
			status = p.Theme.RenderError(fmt.Sprintf("❌ Failure (%v)", res.Err))
		} else {
			status = p.Theme.RenderSuccess("✅ Success")
		}
		fmt.Fprintf(out, "%s%s   %s%s   %s\n",
			p.Theme.RenderPrimary(res.ID), padRight("", maxNameLen-len(res.ID)),
			p.Theme.RenderSecondary(durations[i]), padRight("", maxDurationLen-utf8.RuneCountInString(durations[i])),
			status)
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// DisplayBalance prints the outcome of a balance run.
func (p Presenter) DisplayBalance(r scenario.BalanceReport, out io.Writer) {
	if p.Quiet {
		fmt.Fprintln(out, FormatQuietBalance(r))
		return
	}
	p.DisplayWorkerTable(r.Report, out)
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "Initial value:  %s\n", p.Theme.RenderInfo(fmt.Sprint(r.Initial)))
	fmt.Fprintf(out, "Final value:    %s\n", p.Theme.RenderPrimary(fmt.Sprint(r.Final)))
	fmt.Fprintf(out, "Expected value: %s\n", p.Theme.RenderInfo(fmt.Sprint(r.Expected)))
	if r.Consistent() {
		fmt.Fprintf(out, "%s\n", p.Theme.RenderSuccess("No update was lost."))
	} else {
		fmt.Fprintf(out, "%s\n", p.Theme.RenderWarning(fmt.Sprintf("Final value is off by %d.", r.Final-r.Expected)))
	}
	fmt.Fprintf(out, "Total time:     %s\n", FormatExecutionDuration(r.Report.Duration))
}

// DisplayCollect prints the outcome of a collect run, one line per queue in
// configuration order.
func (p Presenter) DisplayCollect(r scenario.CollectReport, out io.Writer) {
	if p.Quiet {
		fmt.Fprint(out, FormatQuietCollect(r))
		return
	}
	p.DisplayWorkerTable(r.Report, out)
	fmt.Fprintf(out, "\n--- Queues ---\n")
	for _, name := range r.QueueOrder {
		fmt.Fprintf(out, "%s: %s\n", p.Theme.RenderPrimary(name), FormatValues(r.Queues[name]))
	}
	fmt.Fprintf(out, "Total time: %s\n", FormatExecutionDuration(r.Report.Duration))
}

// HandleError prints a run failure and returns the matching exit code.
func (p Presenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	code := apperrors.ExitCode(err)
	switch code {
	case apperrors.ExitErrorTimeout:
		fmt.Fprintf(out, "%s\n", p.Theme.RenderError(fmt.Sprintf("Run timed out after %s.", FormatExecutionDuration(duration))))
	case apperrors.ExitErrorCanceled:
		fmt.Fprintf(out, "%s\n", p.Theme.RenderWarning("Run canceled."))
	default:
		var we apperrors.WorkerError
		if errors.As(err, &we) {
			fmt.Fprintf(out, "%s\n", p.Theme.RenderError(fmt.Sprintf("Worker %s failed: %v", we.WorkerID, we.Cause)))
		} else {
			fmt.Fprintf(out, "%s\n", p.Theme.RenderError(fmt.Sprintf("Error: %v", err)))
		}
	}
	return code
}
