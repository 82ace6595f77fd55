package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Policy controls Do. Zero values fall back to one attempt with no
// delay, so a zero Policy degenerates to a plain call.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Jitter adds up to this much extra delay per attempt.
	Jitter time.Duration
}

// DefaultPolicy matches the adapter-layer defaults: three attempts,
// one second base delay, doubling, up to one second of jitter.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second, Jitter: time.Second}
}

// Do runs fn, retrying with exponential backoff until it succeeds,
// attempts are exhausted, or ctx is done. It is meant for the
// persistence and platform adapter layers; crawl and collection loops
// handle their failures by skipping, not retrying.
func Do(ctx context.Context, p Policy, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.BaseDelay << (attempt - 1)
			if p.Jitter > 0 {
				delay += time.Duration(rand.Int63n(int64(p.Jitter)))
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
