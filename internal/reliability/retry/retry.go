// Package retry provides bounded retry with exponential backoff for
// operations that can fail transiently, such as database transactions
// aborted on serialization conflicts.
package retry

import (
	"context"
	"log/slog"
	"time"
)

// Config holds retry strategy configuration.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig returns the defaults used for registration transactions.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialBackoff: 25 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// Do runs fn up to cfg.MaxAttempts times, backing off between attempts.
// Only errors for which retryable returns true are retried; any other error
// is returned immediately. The last error is returned when attempts run out.
func Do[T any](ctx context.Context, cfg Config, log *slog.Logger, op string, retryable func(error) bool, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	backoff := cfg.InitialBackoff
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err
		if attempt == cfg.MaxAttempts {
			break
		}
		log.Warn("transient failure, retrying",
			"operation", op,
			"attempt", attempt,
			"max_attempts", cfg.MaxAttempts,
			"backoff", backoff.String(),
			"err", err,
		)
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}
	return zero, lastErr
}
