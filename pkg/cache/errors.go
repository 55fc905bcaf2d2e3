package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure that may go away on a second attempt, such
// as a dropped connection to the Redis server.
type RetryableError struct{ Err error }

// Retryable wraps err as a RetryableError. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err (or anything it wraps) is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff repeats an operation while it fails with a RetryableError, pausing
// Delay before the second attempt and doubling the pause after that.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

var defaultBackoff = Backoff{Attempts: 3, Delay: 50 * time.Millisecond}

// Do runs fn until it succeeds, fails permanently, exhausts the attempts or
// ctx is done. It returns the last error seen, or ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	pause := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		t := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		pause *= 2
	}
}

// RetryWithBackoff runs fn with the package's default policy: three attempts
// starting at 50ms.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return defaultBackoff.Do(ctx, fn)
}
