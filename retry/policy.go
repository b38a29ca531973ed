// Package retry provides declarative retry policies with capped exponential
// backoff and jitter. A Policy only computes decisions and delays; running
// the retry loop, sleeping and cancellation stay with the caller.
package retry

import (
	"math"
	"math/rand"
	"time"
)

// Policy describes how an operation should be retried. The zero value
// retries nothing; start from NewPolicy or one of the presets and adjust
// with the With methods:
//
//	p := retry.Network().WithMaxAttempts(6)
type Policy struct {
	// MaxAttempts bounds ShouldRetry.
	MaxAttempts int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the computed delay.
	MaxDelay time.Duration
	// BackoffMultiplier scales the delay for each further attempt.
	BackoffMultiplier float64
	// Jitter randomizes each delay within a ±25% band.
	Jitter bool
}

// NewPolicy returns the standard policy, 3 attempts starting at 100ms with
// doubling backoff capped at 30s.
func NewPolicy() Policy {
	return Standard()
}

// Fast is tuned for quick in-process operations.
func Fast() Policy {
	return Policy{
		MaxAttempts:       3,
		BaseDelay:         50 * time.Millisecond,
		MaxDelay:          time.Second,
		BackoffMultiplier: 1.5,
		Jitter:            true,
	}
}

// Standard suits most operations.
func Standard() Policy {
	return Policy{
		MaxAttempts:       3,
		BaseDelay:         100 * time.Millisecond,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// Slow is tuned for expensive operations that deserve patience.
func Slow() Policy {
	return Policy{
		MaxAttempts:       5,
		BaseDelay:         500 * time.Millisecond,
		MaxDelay:          60 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// Network is tuned for calls across the network.
func Network() Policy {
	return Policy{
		MaxAttempts:       4,
		BaseDelay:         250 * time.Millisecond,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// Database is tuned for datastore operations.
func Database() Policy {
	return Policy{
		MaxAttempts:       3,
		BaseDelay:         100 * time.Millisecond,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	}
}

// WithMaxAttempts returns the policy with MaxAttempts set.
func (p Policy) WithMaxAttempts(n int) Policy {
	p.MaxAttempts = n
	return p
}

// WithBaseDelay returns the policy with BaseDelay set.
func (p Policy) WithBaseDelay(d time.Duration) Policy {
	p.BaseDelay = d
	return p
}

// WithMaxDelay returns the policy with MaxDelay set.
func (p Policy) WithMaxDelay(d time.Duration) Policy {
	p.MaxDelay = d
	return p
}

// WithBackoffMultiplier returns the policy with BackoffMultiplier set.
func (p Policy) WithBackoffMultiplier(m float64) Policy {
	p.BackoffMultiplier = m
	return p
}

// WithJitter returns the policy with jitter enabled or disabled.
func (p Policy) WithJitter(jitter bool) Policy {
	p.Jitter = jitter
	return p
}

// CalculateDelay returns the wait before the given attempt. Attempt numbers
// are 1-based; attempt 0 (and below) yields no delay. The delay grows as
// BaseDelay * BackoffMultiplier^(attempt-1) at millisecond granularity, is
// capped at MaxDelay, and when jitter is on is scaled by a random factor in
// [0.75, 1.25) to avoid thundering herds.
func (p Policy) CalculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	exp := float64(p.BaseDelay.Milliseconds()) * math.Pow(p.BackoffMultiplier, float64(attempt-1))

	// The float comparison doubles as the overflow guard, an exponent big
	// enough to overflow int64 still lands on the cap.
	delay := p.MaxDelay
	if exp < float64(p.MaxDelay.Milliseconds()) {
		delay = time.Duration(exp) * time.Millisecond
	}

	if p.Jitter {
		delay = addJitter(delay)
	}
	return delay
}

// ShouldRetry reports whether another attempt is allowed after the given
// number of completed attempts. Attempts are 0-based here, unlike
// CalculateDelay.
func (p Policy) ShouldRetry(attempt int) bool {
	return attempt < p.MaxAttempts
}

func addJitter(delay time.Duration) time.Duration {
	factor := 0.75 + rand.Float64()*0.5
	return time.Duration(float64(delay.Milliseconds())*factor) * time.Millisecond
}
