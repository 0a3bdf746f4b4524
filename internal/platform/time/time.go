// Package time holds deadline helpers for request budgets
package time

import (
	"context"
	"time"
)

// WithBudget bounds parent by d without ever extending an existing deadline
// d <= 0 adds no limit but still returns a cancelable child.
func WithBudget(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem, ok := Remaining(parent); ok && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}

// Remaining reports the time left on ctx; ok is false when ctx has no deadline
// An expired deadline reports zero with ok true.
func Remaining(ctx context.Context) (time.Duration, bool) {
	dl, ok := ctx.Deadline()
	if !ok {
		return 0, false
	}
	return max(time.Until(dl), 0), true
}

// Backoff returns base doubled per attempt, capped at ceiling; attempt 0 is base
func Backoff(attempt int, base, ceiling time.Duration) time.Duration {
	d := base
	for i := 0; i < attempt && d < ceiling; i++ {
		d *= 2
	}
	return min(d, ceiling)
}
