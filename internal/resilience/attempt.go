// Package resilience provides bounded-attempt execution for the external
// calls made by signal collectors. The default is a single attempt; every
// fallback in the pipeline is a static substitute value, not a re-try loop,
// so retries are opt-in via configuration.
package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AttemptConfig controls bounded re-attempts of an external call.
type AttemptConfig struct {
	// MaxAttempts is the total number of attempts including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// Backoff is the fixed delay between attempts. Default: 500ms.
	Backoff time.Duration

	// ShouldRetry overrides the transient-error check. If nil, IsTransient
	// is used.
	ShouldRetry func(err error) bool
}

// DoVal executes fn up to cfg.MaxAttempts times, returning the first
// successful value. Only transient errors are re-attempted; context
// cancellation stops immediately.
func DoVal[T any](ctx context.Context, cfg AttemptConfig, service string, fn func(ctx context.Context) (T, error)) (T, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !shouldRetry(err) || attempt == cfg.MaxAttempts {
			break
		}

		zap.L().Warn("retrying external call",
			zap.String("service", service),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		timer := time.NewTimer(cfg.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, lastErr
}
