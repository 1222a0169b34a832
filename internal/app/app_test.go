package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/agbru/workerlab/internal/errors"
	"github.com/agbru/workerlab/internal/ui"
)

func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	application, err := New(append([]string{"workerlab"}, args...), &errBuf, WithTheme(ui.NoColorTheme))
	if err != nil {
		t.Fatalf("New(%v): %v", args, err)
	}
	return application, &errBuf
}

func TestNew(t *testing.T) {
	t.Setenv("WORKERLAB_MODE", "")

	application, _ := newTestApp(t, "collect", "-delay", "0")
	if application.Config.Mode != "collect" {
		t.Errorf("Mode = %q, want collect", application.Config.Mode)
	}
	if len(application.Config.Producers) != 2 {
		t.Errorf("got %d producers, want 2", len(application.Config.Producers))
	}
	if application.logger == nil {
		t.Error("logger should default from the config")
	}
}

func TestNewErrors(t *testing.T) {
	var errBuf bytes.Buffer

	_, err := New([]string{"workerlab", "-h"}, &errBuf)
	if !IsHelpError(err) {
		t.Errorf("-h: got %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(errBuf.String(), "Usage: workerlab") {
		t.Errorf("usage not printed: %q", errBuf.String())
	}

	_, err = New([]string{"workerlab", "teleport"}, &errBuf)
	if err == nil || IsHelpError(err) {
		t.Fatalf("unknown mode: got %v", err)
	}
	if code := apperrors.ExitCode(err); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
}

func TestRunBalance(t *testing.T) {
	t.Run("Quiet", func(t *testing.T) {
		application, _ := newTestApp(t, "balance", "-q", "-delay", "0")
		var out bytes.Buffer
		if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		if out.String() != "202\n" {
			t.Errorf("output = %q, want %q", out.String(), "202\n")
		}
	})

	t.Run("Full report", func(t *testing.T) {
		application, _ := newTestApp(t, "balance", "-delay", "0", "-initial", "10", "-workers", "a:+2x10,b:-1x5")
		var out bytes.Buffer
		if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
			t.Fatalf("exit code = %d", code)
		}
		for _, want := range []string{"--- Execution Configuration ---", "--- Workers ---", "Final value:    25", "No update was lost."} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("output missing %q:\n%s", want, out.String())
			}
		}
	})
}

func TestRunCollect(t *testing.T) {
	application, _ := newTestApp(t, "collect", "-q", "-delay", "0")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	want := "squares: 4 9 16 25\ncubes: 8 27 64 125\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunWorkerFailure(t *testing.T) {
	application, errBuf := newTestApp(t, "collect", "-q", "-delay", "0", "-producers", "big=cube:1,3000000")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitErrorWorker {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorWorker)
	}
	if out.Len() != 0 {
		t.Errorf("quiet stdout should stay empty on failure, got %q", out.String())
	}
	if !strings.Contains(errBuf.String(), "Worker big failed: integer overflow") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestRunTimeout(t *testing.T) {
	application, _ := newTestApp(t, "balance", "-delay", "1s", "-timeout", "50ms")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitErrorTimeout {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if !strings.Contains(out.String(), "Run timed out") {
		t.Errorf("output missing timeout message:\n%s", out.String())
	}
}

func TestRunCanceled(t *testing.T) {
	application, _ := newTestApp(t, "balance", "-delay", "1s")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if code := application.Run(ctx, &out); code != apperrors.ExitErrorCanceled {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRunVerboseLogsSteps(t *testing.T) {
	application, errBuf := newTestApp(t, "balance", "-v", "-delay", "0", "-workers", "solo:+1x2")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	logs := errBuf.String()
	if strings.Count(logs, `"message":"step done"`) != 2 {
		t.Errorf("want 2 step logs, got:\n%s", logs)
	}
	if !strings.Contains(logs, `"component":"workerlab"`) {
		t.Errorf("logs should carry the component field:\n%s", logs)
	}
}

func TestRunWithMetricsServer(t *testing.T) {
	application, _ := newTestApp(t, "balance", "-q", "-delay", "0", "-metrics-addr", "127.0.0.1:0")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if out.String() != "202\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunMetricsServerBindError(t *testing.T) {
	application, errBuf := newTestApp(t, "balance", "-q", "-delay", "0", "-metrics-addr", "256.0.0.1:bad")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitErrorGeneric {
		t.Fatalf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(errBuf.String(), "metrics server") {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestRunCompletion(t *testing.T) {
	application, _ := newTestApp(t, "-completion", "fish")
	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "complete -c workerlab") {
		t.Errorf("not a fish script:\n%s", out.String())
	}
}

func TestIsHelpError(t *testing.T) {
	if IsHelpError(errors.New("other")) {
		t.Error("plain error is not a help error")
	}
	if IsHelpError(nil) {
		t.Error("nil is not a help error")
	}
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--version"}, true},
		{[]string{"collect", "-V"}, true},
		{[]string{"-version"}, true},
		{[]string{"--", "--version"}, false},
		{[]string{"-q"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	PrintVersion(&out)
	if !strings.HasPrefix(out.String(), "workerlab "+Version+"\n") {
		t.Errorf("unexpected banner:\n%s", out.String())
	}
}
