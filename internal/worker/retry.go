// Package worker holds small concurrency and resilience helpers shared
// by the truthpack store and the file loader.
package worker

import (
	"context"
	"time"
)

// sleepFunc is the sleep used between retries (injectable for tests)
var sleepFunc = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Retry runs fn up to attempts times, doubling the backoff between
// tries. The last error is returned when every attempt fails; a context
// cancellation stops retrying immediately.
func Retry(ctx context.Context, attempts int, backoff time.Duration, fn func() error) error {
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt < attempts-1 {
			wait := backoff * time.Duration(1<<uint(attempt))
			if err := sleepFunc(ctx, wait); err != nil {
				return err
			}
		}
	}
	return lastErr
}
