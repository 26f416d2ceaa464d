package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig defines retry behavior for remote source reads
type RetryConfig struct {
	MaxAttempts       int           `json:"max_attempts"`
	InitialDelay      time.Duration `json:"initial_delay"`
	MaxDelay          time.Duration `json:"max_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
	Jitter            bool          `json:"jitter"`
}

// Default retry configurations for different operation types
var DefaultRetryConfigs = map[string]RetryConfig{
	"http": {
		MaxAttempts:       3,
		InitialDelay:      1 * time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	},
	"s3": {
		MaxAttempts:       3,
		InitialDelay:      2 * time.Second,
		MaxDelay:          60 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
	},
}

// permanentError marks an error that must not be retried
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so Retry gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry runs op until it succeeds, returns a Permanent error, exhausts
// cfg.MaxAttempts or ctx is done.
func Retry(ctx context.Context, cfg RetryConfig, op func(ctx context.Context) error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if attempt == attempts {
			break
		}

		delay := cfg.delay(attempt)
		fmt.Printf("🔄 Attempt %d/%d failed: %v (retrying in %v)\n", attempt, attempts, err, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled after %d attempts: %w", attempt, errors.Join(lastErr, ctx.Err()))
		case <-timer.C:
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}

// delay returns the backoff before the attempt following attempt n.
func (c RetryConfig) delay(n int) time.Duration {
	mult := c.BackoffMultiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(c.InitialDelay) * math.Pow(mult, float64(n-1))
	if c.MaxDelay > 0 && d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	if c.Jitter && d > 0 {
		// +/- 20%
		d = d * (0.8 + 0.4*rand.Float64())
	}
	return time.Duration(d)
}
