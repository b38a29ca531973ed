package retry

import (
	"errors"
	"time"
)

// RetryableError is implemented by errors that carry their own retry
// semantics. tylerr.Error satisfies it, and callers may implement it on any
// error type to take part in Classify.
type RetryableError interface {
	error

	// ShouldRetry reports whether another attempt is worthwhile after the
	// given number of completed attempts (0-based).
	ShouldRetry(attempt int) bool

	// RetryDelay returns the suggested wait before the given attempt
	// (1-based).
	RetryDelay(attempt int) time.Duration

	// MaxRetries returns the most attempts this error allows.
	MaxRetries() int
}

// Decision is the outcome of classifying an operation result.
type Decision int

const (
	DecisionSuccess Decision = iota // operation succeeded, stop
	DecisionRetry                   // operation failed, try again
	DecisionFailed                  // operation failed for good
)

// String returns a short lowercase name for logging.
func (d Decision) String() string {
	switch d {
	case DecisionSuccess:
		return "success"
	case DecisionRetry:
		return "retry"
	case DecisionFailed:
		return "failed"
	}
	return "unknown"
}

// Classify maps an operation result to a Decision. A nil err is
// DecisionSuccess. An err that is or wraps a RetryableError willing to retry
// after the given number of completed attempts is DecisionRetry; everything
// else is DecisionFailed.
func Classify(err error, attempt int) Decision {
	if err == nil {
		return DecisionSuccess
	}
	var r RetryableError
	if errors.As(err, &r) && r.ShouldRetry(attempt) {
		return DecisionRetry
	}
	return DecisionFailed
}
