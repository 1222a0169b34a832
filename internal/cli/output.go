// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [Presenter.DisplayBalance], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietBalance], [FormatExecutionDuration].

package cli

import (
	"strconv"
	"strings"

	"github.com/agbru/workerlab/internal/scenario"
)

// FormatValues renders drained queue values as "[4 9 16 25]".
func FormatValues(values []int64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	b.WriteByte(']')
	return b.String()
}

// FormatQuietBalance returns the final counter value alone, for scripts.
func FormatQuietBalance(r scenario.BalanceReport) string {
	return strconv.FormatInt(r.Final, 10)
}

// FormatQuietCollect returns one "queue: v1 v2 ..." line per queue, in
// configuration order.
func FormatQuietCollect(r scenario.CollectReport) string {
	var b strings.Builder
	for _, name := range r.QueueOrder {
		b.WriteString(name)
		b.WriteByte(':')
		for _, v := range r.Queues[name] {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatInt(v, 10))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
