package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/workerlab/internal/cli"
	"github.com/agbru/workerlab/internal/config"
	apperrors "github.com/agbru/workerlab/internal/errors"
	"github.com/agbru/workerlab/internal/logging"
	"github.com/agbru/workerlab/internal/ui"
)

// Application represents the workerlab application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// Theme is the color theme for terminal output.
	Theme ui.Theme

	logger logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLogger replaces the logger derived from the verbosity flags.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.logger = l }
}

// WithTheme forces a color theme instead of detecting one.
func WithTheme(t ui.Theme) AppOption {
	return func(a *Application) { a.Theme = t }
}

// New creates a new Application instance by parsing command-line arguments.
// args includes the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	programName := "workerlab"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app := &Application{Config: cfg, ErrWriter: errWriter, Theme: ui.DetectTheme(cfg.NoColor)}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = newLogger(cfg, errWriter)
	}
	return app, nil
}

// newLogger logs JSON to w: every worker step with -v, failures only by
// default, nothing with -q.
func newLogger(cfg config.AppConfig, w io.Writer) logging.Logger {
	if cfg.Quiet {
		return logging.NewNopLogger()
	}
	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(zerolog.SyncWriter(w)).Level(level).With().Timestamp().Str("component", "workerlab").Logger()
	return logging.NewZerologAdapter(zl)
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return a.runScenario(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	modes := []string{config.ModeBalance, config.ModeCollect}
	if err := cli.GenerateCompletion(out, a.Config.Completion, modes); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
