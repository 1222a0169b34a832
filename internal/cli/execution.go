package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/workerlab/internal/config"
	"github.com/agbru/workerlab/internal/sysmon"
	"github.com/agbru/workerlab/internal/ui"
)

// PrintExecutionConfig displays the resolved configuration before a run.
func PrintExecutionConfig(cfg config.AppConfig, theme ui.Theme, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	switch cfg.Mode {
	case config.ModeBalance:
		fmt.Fprintf(out, "Balance run from %s with %s workers.\n",
			theme.RenderInfo(fmt.Sprint(cfg.Initial)), theme.RenderInfo(fmt.Sprint(len(cfg.Workers))))
		for _, w := range cfg.Workers {
			fmt.Fprintf(out, "  %s: %+d x %d\n", theme.RenderPrimary(w.Name), w.Delta, w.Count)
		}
	case config.ModeCollect:
		fmt.Fprintf(out, "Collect run with %s producers.\n", theme.RenderInfo(fmt.Sprint(len(cfg.Producers))))
		for _, p := range cfg.Producers {
			fmt.Fprintf(out, "  %s: %s of %s into %s\n",
				theme.RenderPrimary(p.Name), p.Operation.Name, FormatValues(p.Inputs), p.Queue)
		}
	}
	fmt.Fprintf(out, "Step delay %s, timeout %s.\n",
		theme.RenderWarning(cfg.Delay.String()), theme.RenderWarning(cfg.Timeout.String()))
	fmt.Fprintf(out, "Environment: %s logical processors, Go %s.\n",
		theme.RenderInfo(fmt.Sprint(runtime.NumCPU())), theme.RenderInfo(runtime.Version()))
	fmt.Fprintf(out, "System load: %s.\n", theme.RenderSecondary(sysmon.Sample().String()))
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
