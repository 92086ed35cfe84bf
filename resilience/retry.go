// Package resilience provides the retry/backoff engine behind stream
// reconnection.
//
// One-shot API calls are never retried by the library; a failed call
// surfaces to the caller. Streaming connections, by contrast, are
// meant to live for hours and must survive drops, so the stream
// consumer re-dials through Do with exponential backoff.
package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// ErrAttemptsExceeded is returned when MaxAttempts is reached without
// success.
var ErrAttemptsExceeded = errors.New("resilience: attempts exceeded")

// Config configures retry behavior.
type Config struct {
	// MaxAttempts caps the number of attempts, including the first.
	// Zero or negative means retry without limit.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry. Defaults to
	// 100ms.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between retries. Defaults to 30s.
	MaxBackoff time.Duration
	// Factor is the exponential backoff multiplier. Defaults to 2.
	Factor float64
	// Jitter adds +/- this fraction of randomness to each delay
	// (0.0 to 1.0).
	Jitter float64
	// RetryIf decides whether an error is worth retrying. Defaults to
	// retrying everything except context cancellation.
	RetryIf func(error) bool
	// OnRetry is called before each backoff sleep.
	OnRetry func(attempt int, err error, backoff time.Duration)
}

// DefaultConfig returns the retry settings used for stream
// reconnection.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    0,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Factor:         2.0,
		Jitter:         0.1,
	}
}

func (c *Config) applyDefaults() {
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 100 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 30 * time.Second
	}
	if c.Factor <= 0 {
		c.Factor = 2.0
	}
	if c.RetryIf == nil {
		c.RetryIf = func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}
	}
}

// Do runs fn until it succeeds, the context is canceled, RetryIf
// rejects the error, or MaxAttempts is exhausted.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	cfg.applyDefaults()

	var lastErr error
	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !cfg.RetryIf(lastErr) {
			return lastErr
		}
		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			return errors.Join(ErrAttemptsExceeded, lastErr)
		}

		backoff := Backoff(attempt, cfg)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr, backoff)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Backoff computes the jittered exponential delay for an attempt
// (1-based).
func Backoff(attempt int, cfg Config) time.Duration {
	cfg.applyDefaults()

	d := float64(cfg.InitialBackoff) * math.Pow(cfg.Factor, float64(attempt-1))
	if cfg.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * cfg.Jitter
	}
	if d > float64(cfg.MaxBackoff) {
		d = float64(cfg.MaxBackoff)
	}
	if d < 0 {
		d = float64(cfg.InitialBackoff)
	}
	return time.Duration(d)
}
