package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid worker spec"},
			expected: "invalid worker spec",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid count %d for worker %s", -1, "deposit"),
			expected: "invalid count -1 for worker deposit",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestWorkerError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         WorkerError
		expectedMsg string
		checkIs     error
	}{
		{
			name:        "step failure",
			err:         WorkerError{WorkerID: "squares", Step: 2, Cause: ErrOverflow},
			expectedMsg: `worker "squares" step 2: integer overflow`,
			checkIs:     ErrOverflow,
		},
		{
			name:        "failure outside the step loop",
			err:         WorkerError{WorkerID: "deposit", Step: -1, Cause: context.Canceled},
			expectedMsg: `worker "deposit": context canceled`,
			checkIs:     context.Canceled,
		},
		{
			name:        "panic cause",
			err:         WorkerError{WorkerID: "cubes", Step: 0, Cause: PanicError{Value: "boom"}},
			expectedMsg: `worker "cubes" step 0: panic: boom`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, tt.err.Error())
			}
			if tt.err.Unwrap() != tt.err.Cause {
				t.Error("Unwrap should return the original cause")
			}
			if tt.checkIs != nil && !errors.Is(tt.err, tt.checkIs) {
				t.Errorf("errors.Is should find %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestWorkerError_ErrorsAsThroughWrap(t *testing.T) {
	t.Parallel()
	inner := WorkerError{WorkerID: "withdrawal", Step: 1, Cause: PanicError{Value: 42}}
	err := WrapError(inner, "balance run failed")

	var workerErr WorkerError
	if !errors.As(err, &workerErr) {
		t.Fatal("errors.As should find WorkerError through WrapError")
	}
	if workerErr.WorkerID != "withdrawal" {
		t.Errorf("expected WorkerID %q, got %q", "withdrawal", workerErr.WorkerID)
	}
	var panicErr PanicError
	if !errors.As(err, &panicErr) {
		t.Fatal("errors.As should find PanicError through WorkerError")
	}
	if panicErr.Value != 42 {
		t.Errorf("expected panic value 42, got %v", panicErr.Value)
	}
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()
	err := TimeoutError{Operation: "balance", Limit: 30 * time.Second}
	if err.Error() != `operation "balance" timed out after 30s` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name:     "count",
			err:      ValidationError{Field: "count", Message: "must be non-negative"},
			expected: `validation error for "count": must be non-negative`,
		},
		{
			name:     "operation",
			err:      ValidationError{Field: "operation", Message: "unknown operation"},
			expected: `validation error for "operation": unknown operation`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var err error = tt.err
			if err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, err.Error())
			}
			var validationErr ValidationError
			if !errors.As(err, &validationErr) {
				t.Error("expected error to be ValidationError type")
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		original    error
		format      string
		args        []any
		expectedMsg string
		expectNil   bool
		checkIs     error
	}{
		{
			name:        "wraps error with context",
			original:    errors.New("queue closed"),
			format:      "drain failed",
			expectedMsg: "drain failed: queue closed",
		},
		{
			name:        "preserves error chain",
			original:    context.DeadlineExceeded,
			format:      "run timed out",
			expectedMsg: "run timed out: context deadline exceeded",
			checkIs:     context.DeadlineExceeded,
		},
		{
			name:      "returns nil for nil error",
			original:  nil,
			format:    "some context",
			expectNil: true,
		},
		{
			name:        "supports format arguments",
			original:    errors.New("guard not acquired"),
			format:      "worker %s step %d",
			args:        []any{"deposit", 3},
			expectedMsg: "worker deposit step 3: guard not acquired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			wrapped := WrapError(tt.original, tt.format, tt.args...)

			if tt.expectNil {
				if wrapped != nil {
					t.Error("WrapError(nil, ...) should return nil")
				}
				return
			}

			if wrapped == nil {
				t.Fatal("wrapped error should not be nil")
			}
			if wrapped.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, wrapped.Error())
			}
			if tt.checkIs != nil && !errors.Is(wrapped, tt.checkIs) {
				t.Errorf("wrapped error should preserve %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"context.Canceled", context.Canceled, true},
		{"context.DeadlineExceeded", context.DeadlineExceeded, true},
		{"wrapped context.Canceled", WrapError(context.Canceled, "run canceled"), true},
		{"worker error over cancel", WorkerError{WorkerID: "w", Step: 0, Cause: context.Canceled}, true},
		{"regular error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.expected {
				t.Errorf("IsContextError(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", fmt.Errorf("parse: %w", ValidationError{Field: "delay", Message: "bad"}), ExitErrorConfig},
		{"timeout type", TimeoutError{Operation: "collect", Limit: time.Second}, ExitErrorTimeout},
		{"deadline", WorkerError{WorkerID: "w", Step: 1, Cause: context.DeadlineExceeded}, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"worker", WorkerError{WorkerID: "w", Step: 1, Cause: ErrOverflow}, ExitErrorWorker},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	t.Parallel()
	codes := map[string]int{
		"ExitSuccess":       ExitSuccess,
		"ExitErrorGeneric":  ExitErrorGeneric,
		"ExitErrorTimeout":  ExitErrorTimeout,
		"ExitErrorWorker":   ExitErrorWorker,
		"ExitErrorConfig":   ExitErrorConfig,
		"ExitErrorCanceled": ExitErrorCanceled,
	}

	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess should be 0, got %d", ExitSuccess)
	}
	if ExitErrorCanceled != 130 {
		t.Errorf("ExitErrorCanceled should be 130 (SIGINT convention), got %d", ExitErrorCanceled)
	}

	seen := make(map[int]string)
	for name, code := range codes {
		if existing, ok := seen[code]; ok {
			t.Errorf("duplicate exit code %d: %s and %s", code, existing, name)
		}
		seen[code] = name
	}
}
