// Package retry provides the single retry-with-backoff primitive shared by
// the upstream token exchange and data fetch calls.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
)

type Backoff = retry.Backoff

// Exponential doubles the delay each attempt: base, 2*base, 4*base, ...
func Exponential(base time.Duration) Backoff {
	return retry.NewExponential(base)
}

// Linear grows the delay by base each attempt: base, 2*base, 3*base, ...
func Linear(base time.Duration) Backoff {
	var attempt int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * base, false
	})
}

// Do runs fn up to attempts times, sleeping per backoff between attempts.
// retryable decides whether a failed attempt may be repeated; a permanent
// error aborts immediately. The returned error aggregates every attempt's
// failure so callers keep the full history in the chain.
func Do(ctx context.Context, attempts int, backoff Backoff, retryable func(error) bool, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var attemptErrs error
	err := retry.Do(ctx, retry.WithMaxRetries(uint64(attempts-1), backoff), func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			attemptErrs = multierr.Append(attemptErrs, err)
			if retryable == nil || retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err == nil {
		return nil
	}
	return attemptErrs
}
