// Package retry provides an explicit retry policy applied to outward calls:
// network fetches, backend generation requests, and submission attempts.
// The policy is a plain value so call sites stay inspectable and testable;
// there is no hidden control flow.
package retry

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/jonathan/apply-agent/internal/errs"
)

// Policy describes how an operation is retried. The zero value is unusable;
// use DefaultPolicy or construct explicitly.
type Policy struct {
	// MaxAttempts is the total attempt ceiling, including the first call.
	MaxAttempts int
	// InitialDelay is the wait after the first failure.
	InitialDelay time.Duration
	// MaxDelay caps the exponential backoff curve.
	MaxDelay time.Duration
	// Multiplier grows the delay between attempts.
	Multiplier float64
	// Jitter adds up to this fraction of the delay randomly, spreading
	// concurrent retries against rate-limited services.
	Jitter float64
	// Classify decides whether an error is worth retrying. Defaults to
	// errs.IsRetryable when nil.
	Classify func(error) bool
}

// DefaultPolicy mirrors the ceiling used across the pipeline's outward calls:
// three attempts with exponential backoff between 1s and 10s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.2,
	}
}

// Do runs op until it succeeds, the error is classified non-retryable, the
// attempt ceiling is reached, or ctx is cancelled. The last error is returned.
func (p Policy) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	classify := p.Classify
	if classify == nil {
		classify = errs.IsRetryable
	}

	delay := p.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !classify(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		wait := delay
		if p.Jitter > 0 {
			wait += time.Duration(rand.Float64() * p.Jitter * float64(delay))
		}
		log.Printf("[retry] %s attempt %d/%d failed: %v (retrying in %s)", name, attempt, p.MaxAttempts, lastErr, wait.Round(time.Millisecond))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return lastErr
}
