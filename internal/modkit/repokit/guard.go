package repokit

import (
	"context"
	"fmt"
	"time"
)

// MustGuard pings every enabled backend through g and panics on any failure
// used at process start, before traffic is accepted
func MustGuard(ctx context.Context, g interface{ Guard(context.Context) error }, timeout time.Duration) {
	if g == nil {
		panic("repokit: nil guard")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := g.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
