package errors

import (
	"context"
	"errors"
	"time"
)

// transient marks an error as worth another attempt.
type transient struct{ err error }

func (e *transient) Error() string { return e.err.Error() }
func (e *transient) Unwrap() error { return e.err }

// Transient marks err as retryable by [Retry]. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transient{err: err}
}

// IsTransient reports whether any error in err's chain was marked by
// [Transient].
func IsTransient(err error) bool {
	var t *transient
	return errors.As(err, &t)
}

// Retry calls fn up to attempts times, doubling delay after each transient
// failure. Other errors are returned at once. If ctx ends while waiting,
// ctx.Err() is returned.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}
