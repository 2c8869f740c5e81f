package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures to reach a remote backend. Callers treat it as
// a cache miss rather than failing the request.
var ErrNetwork = errors.New("network error")

// Retry tuning for remote backends. RetryDelay doubles after each failed
// attempt.
var (
	RetryAttempts = 3
	RetryDelay    = time.Second
)

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or an error it wraps, was marked with
// [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff calls fn until it succeeds, returns a non-retryable
// error, or RetryAttempts calls have failed. It returns ctx.Err() if the
// context ends while waiting.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := RetryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= RetryAttempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
