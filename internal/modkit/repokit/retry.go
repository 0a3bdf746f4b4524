package repokit

import (
	"context"
	"time"

	perr "bazaar/internal/platform/errors"
	"bazaar/internal/platform/logger"
	ptime "bazaar/internal/platform/time"
)

// RetryPolicy bounds retries of transient store errors
type RetryPolicy struct {
	Attempts int           // total tries, at least 1
	Base     time.Duration // first backoff
	Ceiling  time.Duration // backoff cap; 0 means 1s
}

var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry runs fn until it succeeds, fails with a non-retryable error or attempts run out
// Only perr.IsRetryable errors are retried; the last error is returned as is.
func Retry(ctx context.Context, p RetryPolicy, op string, fn func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.Ceiling <= 0 {
		p.Ceiling = time.Second
	}
	var err error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if attempt > 0 {
			wait := ptime.Backoff(attempt-1, p.Base, p.Ceiling)
			logger.C(ctx).Debug().Err(err).Str("op", op).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying transient store error")
			if serr := sleep(ctx, wait); serr != nil {
				return err
			}
		}
		if err = fn(ctx); err == nil || !perr.IsRetryable(err) {
			return err
		}
	}
	return err
}
