package client

import (
	"context"
	"time"
)

// RetryPolicy describes how a failed attempt is retried. Attempt numbers
// start at 1; after attempt n fails with a retryable error and
// n <= MaxRetries, the policy waits Delay(n) and runs attempt n+1.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration

	// Retryable filters errors; nil retries everything.
	Retryable func(error) bool

	// Sleep waits d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry is called before each wait.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// Delay is the linear backoff before the attempt following attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(attempt)
}

// Retry runs fn until it succeeds, fails with a non-retryable error, or the
// retry budget is spent. The last failure is returned as-is.
func Retry[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 1; ; attempt++ {
		v, err := fn(ctx, attempt)
		if err == nil {
			return v, nil
		}

		if attempt > p.MaxRetries || ctx.Err() != nil {
			return v, err
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return v, err
		}

		delay := p.Delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, delay, err)
		}
		if serr := sleep(ctx, delay); serr != nil {
			var zero T
			return zero, serr
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
