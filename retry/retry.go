package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// Config shapes the exponential backoff schedule.
type Config struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterFactor  float64
}

// StartupConfig is the schedule used for startup dependencies such as the
// database: a serverless Postgres instance may need a few seconds to resume
// from idle before connections succeed.
func StartupConfig() Config {
	return Config{
		MaxAttempts:   5,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      8 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.2,
	}
}

// Do runs the operation until it succeeds, the attempts are exhausted, or the
// context is cancelled.
func Do(ctx context.Context, cfg Config, logger *slog.Logger, name string, operation func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = operation(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "operation succeeded after retry",
					"operation", name, "attempt", attempt)
			}
			return nil
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		delay := backoffDelay(cfg, attempt)
		logger.WarnContext(ctx, "operation failed, backing off",
			"operation", name,
			"attempt", attempt,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, cfg.MaxAttempts, lastErr)
}

func backoffDelay(cfg Config, attempt int) time.Duration {
	delay := float64(cfg.BaseDelay) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}

	// Jitter spreads reconnect storms when several processes restart together.
	delay *= 1.0 + (rand.Float64()-0.5)*cfg.JitterFactor

	return time.Duration(delay)
}
