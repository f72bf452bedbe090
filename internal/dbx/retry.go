package dbx

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// retryBaseDelay is the first backoff step; it doubles on every attempt.
var retryBaseDelay = 100 * time.Millisecond

// WithTimeout bounds a single store call. A non-positive d means no bound.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// Retry runs fn, bounding every attempt with timeout. Failures that
// IsTransient reports as transient are retried up to retries times with
// exponential backoff; any other failure is returned at once.
func Retry(ctx context.Context, retries int, timeout time.Duration, fn func(ctx context.Context) error) error {
	if retries < 0 {
		retries = 0
	}
	backoff := retry.WithMaxRetries(uint64(retries), retry.NewExponential(retryBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := WithTimeout(ctx, timeout)
		defer cancel()

		err := fn(callCtx)
		if err != nil && IsTransient(err) && ctx.Err() == nil {
			return retry.RetryableError(err)
		}
		return err
	})
}
