package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Policy describes a bounded retry with exponential backoff and jitter.
// It is applied explicitly at each call site that talks to the network.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Factor      float64
	Jitter      bool

	// Retryable decides whether an error is worth another attempt.
	// A nil predicate retries every error.
	Retryable func(error) bool
}

// DefaultPolicy returns a policy matching the documented defaults:
// three attempts, one second base delay, exponential factor two with jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Factor:      2.0,
		Jitter:      true,
	}
}

// Do runs op until it succeeds, the attempt budget is exhausted, the error is
// not retryable, or the context is cancelled. The last error is returned.
func (p Policy) Do(ctx context.Context, operation string, op func() error) error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("%s failed: no attempts permitted", operation)
	}

	var lastErr error

	delay := p.BaseDelay
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}

		if attempt == p.MaxAttempts {
			break
		}

		sleep := delay
		if p.MaxDelay > 0 && sleep > p.MaxDelay {
			sleep = p.MaxDelay
		}
		if p.Jitter {
			sleep = time.Duration(float64(sleep) * (0.5 + rand.Float64()))
		}

		log.Warn().
			Err(lastErr).
			Str("operation", operation).
			Int("attempt", attempt).
			Int("maxAttempts", p.MaxAttempts).
			Dur("backoff", sleep).
			Msg("Operation failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}

		delay = time.Duration(float64(delay) * p.Factor)
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, p.MaxAttempts, lastErr)
}
