package ratelimit

import (
	"context"
	"math/rand"
	"time"

	"github.com/WaleedAkram111/instagram-analytics-project/internal/logging"
)

// Limiter paces external API calls: a uniform random delay within
// [MinDelay, MaxDelay] between consecutive calls, plus an hourly call
// quota that blocks until the hour window resets once exhausted.
// It is injected into the crawler and collector as a dependency; it is
// not safe for concurrent use, matching the sequential pipeline.
type Limiter struct {
	minDelay    time.Duration
	maxDelay    time.Duration
	maxPerHour  int
	lastCall    time.Time
	callCount   int
	windowStart time.Time

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

// New returns a Limiter. maxPerHour <= 0 disables the hourly quota.
func New(minDelay, maxDelay time.Duration, maxPerHour int) *Limiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Limiter{
		minDelay:   minDelay,
		maxDelay:   maxDelay,
		maxPerHour: maxPerHour,
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// Wait blocks until the next call is permitted, or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) > time.Hour {
		l.callCount = 0
		l.windowStart = now
	}
	if l.maxPerHour > 0 && l.callCount >= l.maxPerHour {
		wait := time.Hour - now.Sub(l.windowStart)
		logging.Warn("hourly_rate_limit_reached", map[string]any{"wait_seconds": int(wait.Seconds())})
		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
		l.callCount = 0
		l.windowStart = l.now()
		now = l.windowStart
	}
	delay := l.minDelay
	if span := l.maxDelay - l.minDelay; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}
	if !l.lastCall.IsZero() {
		if elapsed := now.Sub(l.lastCall); elapsed < delay {
			if err := l.sleep(ctx, delay-elapsed); err != nil {
				return err
			}
		}
	}
	l.lastCall = l.now()
	l.callCount++
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
