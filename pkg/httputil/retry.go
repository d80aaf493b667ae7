// Package httputil provides retry and backoff helpers shared by API clients.
package httputil

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// MaxRetries is the number of retries after the initial attempt.
// A call chain that fails on every attempt makes MaxRetries+1 attempts.
const MaxRetries = 3

// RetryBaseDelay controls the base duration for exponential backoff.
// The cap is 16x the base and the jitter span equals the base.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = time.Second

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (server errors, timeouts, throttling with a
// retry hint) with this type so that [Retry] knows to attempt the
// operation again. Other errors are surfaced on first occurrence.
type RetryableError struct {
	Err error

	// RetryAfter, when positive, replaces the computed backoff delay for
	// the next attempt. Set it from a Retry-After response header.
	RetryAfter time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps an error as a RetryableError without a wait hint.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Backoff returns the delay before retry attempt n (0-indexed):
// min(1s * 2^n, 16s) plus a uniformly random jitter in [0, 1s).
// The jitter avoids synchronized retry storms across concurrent callers.
func Backoff(n int) time.Duration {
	base := RetryBaseDelay
	d := 16 * base
	if n < 4 {
		d = base << uint(n)
	}
	return d + time.Duration(rand.Int63n(int64(base)))
}

// Retry executes fn until it succeeds, fails permanently, or exhausts
// MaxRetries retries. Only errors wrapped with [RetryableError] are
// retried; a wait hint on the error overrides the exponential backoff.
// After exhausting retries the last error is returned unwrapped, so the
// caller sees the same kind the final attempt produced. Returns ctx.Err()
// if the context is cancelled during a backoff wait.
func Retry(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var re *RetryableError
		if !errors.As(err, &re) || attempt >= MaxRetries {
			return unwrapRetryable(lastErr)
		}

		delay := Backoff(attempt)
		if re.RetryAfter > 0 {
			delay = re.RetryAfter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func unwrapRetryable(err error) error {
	var re *RetryableError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}
