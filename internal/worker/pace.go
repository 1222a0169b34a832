package worker

import (
	"context"
	"time"
)

// SleepOrDone waits for the duration or returns early on context cancellation.
// A zero or negative duration returns immediately, even if ctx is already done.
func SleepOrDone(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
