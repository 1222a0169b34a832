// Package config parses the command line and environment into an AppConfig.
// Priority is CLI flags, then WORKERLAB_* environment variables, then defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/workerlab/internal/errors"
	"github.com/agbru/workerlab/internal/scenario"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "WORKERLAB_"

// Run modes.
const (
	ModeBalance = "balance"
	ModeCollect = "collect"
)

// Default values.
const (
	DefaultWorkers   = "deposit:+1x5,withdrawal:-1x3"
	DefaultProducers = "squares=square:2,3,4,5;cubes=cube:2,3,4,5"
	DefaultInitial   = 200
	DefaultTimeout   = time.Minute
)

// AppConfig is the fully resolved application configuration.
type AppConfig struct {
	Mode    string
	Initial int64
	// WorkerSpec and ProducerSpec hold the raw text; Workers and Producers
	// the parsed form.
	WorkerSpec   string
	ProducerSpec string
	Workers      []scenario.DeltaSpec
	Producers    []scenario.ProducerSpec
	Delay        time.Duration
	Timeout      time.Duration
	Verbose      bool
	Quiet        bool
	MetricsAddr  string
	NoColor      bool
	// Completion names a shell to print a completion script for instead of running.
	Completion string

	delaySet bool
}

// DefaultDelay returns the pacing used by a mode when none is configured.
func DefaultDelay(mode string) time.Duration {
	if mode == ModeCollect {
		return 200 * time.Millisecond
	}
	return 10 * time.Millisecond
}

// ParseConfig parses args (without the program name). The first argument may
// name the mode; it defaults to WORKERLAB_MODE and then to balance.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{Mode: getEnvString("MODE", ModeBalance)}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cfg.Mode = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [balance|collect] [flags]\n\nFlags:\n", programName)
		fs.PrintDefaults()
	}

	fs.Int64Var(&cfg.Initial, "initial", DefaultInitial, "Initial value of the shared counter (balance).")
	fs.StringVar(&cfg.WorkerSpec, "workers", DefaultWorkers, "Delta workers as name:±DELTAxCOUNT, comma separated (balance).")
	fs.StringVar(&cfg.ProducerSpec, "producers", DefaultProducers, "Producers as queue=op:inputs, semicolon separated; inputs are a,b,c or start:end (collect).")
	fs.DurationVar(&cfg.Delay, "delay", 0, "Pause before each worker step (default 10ms for balance, 200ms for collect).")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Log every worker step.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log every worker step.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Print only the result values.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the result values.")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running (e.g. :9090).")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output (NO_COLOR is also honored).")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh or fish and exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg.delaySet = isFlagSet(fs, "delay")
	applyEnvOverrides(&cfg, fs)
	if !cfg.delaySet {
		cfg.Delay = DefaultDelay(cfg.Mode)
	}

	if err := cfg.resolve(); err != nil {
		return AppConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// resolve parses the worker or producer strings the selected mode needs.
func (c *AppConfig) resolve() error {
	var err error
	switch c.Mode {
	case ModeBalance:
		c.Workers, err = ParseWorkerSpecs(c.WorkerSpec)
	case ModeCollect:
		c.Producers, err = ParseProducerSpecs(c.ProducerSpec)
	}
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	return nil
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate() error {
	switch c.Mode {
	case ModeBalance:
		if len(c.Workers) == 0 {
			return apperrors.NewConfigError("balance mode needs at least one worker")
		}
	case ModeCollect:
		if len(c.Producers) == 0 {
			return apperrors.NewConfigError("collect mode needs at least one producer")
		}
	default:
		return apperrors.NewConfigError("unknown mode %q (want %s or %s)", c.Mode, ModeBalance, ModeCollect)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish":
	default:
		return apperrors.NewConfigError("unsupported completion shell %q (want bash, zsh or fish)", c.Completion)
	}
	if c.Verbose && c.Quiet {
		return apperrors.NewConfigError("--verbose and --quiet are mutually exclusive")
	}
	return nil
}

// BalanceConfig converts the configuration into a scenario run description.
func (c AppConfig) BalanceConfig() scenario.BalanceConfig {
	return scenario.BalanceConfig{Initial: c.Initial, Workers: c.Workers, Delay: c.Delay}
}

// CollectConfig converts the configuration into a scenario run description.
func (c AppConfig) CollectConfig() scenario.CollectConfig {
	return scenario.CollectConfig{Producers: c.Producers, Delay: c.Delay}
}
