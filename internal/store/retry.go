// internal/store/retry.go
package store

import (
	"math"
	"math/rand"
	"strings"
	"time"
)

// RetryPolicy controls how failed cart transactions are retried with
// jittered exponential backoff.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// DefaultRetryPolicy returns the policy used for cart transactions:
// 3 attempts, 25ms initial delay, 2x multiplier, 500ms max delay.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 25 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     500 * time.Millisecond,
	}
}

// isRetryable classifies errors as retryable or permanent. Only contention
// signals from the database are retryable; everything else surfaces
// immediately.
func (p *RetryPolicy) isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "busy") ||
		strings.Contains(msg, "concurrent")
}

// NextDelay returns the backoff delay for the given attempt number
// (1-indexed), jittered to between 50% and 150% of the nominal delay.
func (p *RetryPolicy) NextDelay(attempt int) time.Duration {
	delay := float64(p.InitialDelay) * math.Pow(p.Multiplier, float64(attempt-1))
	if delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	return time.Duration(delay * (0.5 + rand.Float64()))
}

// Execute runs fn up to MaxAttempts times, sleeping between retries.
// Returns nil on success or the last error if all attempts fail or the
// error is non-retryable.
func (p *RetryPolicy) Execute(fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !p.isRetryable(err) {
			return err
		}
		if attempt < p.MaxAttempts {
			time.Sleep(p.NextDelay(attempt))
		}
	}
	return lastErr
}
