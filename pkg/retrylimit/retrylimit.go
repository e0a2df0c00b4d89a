// Package retrylimit provides adaptive rate limiting and bounded retries
// for outbound API clients. The limiter speeds up while calls succeed and
// backs off when the remote side pushes back.
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// AdaptiveLimiter wraps rate.Limiter with success/failure feedback.
// Thread-safe.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter creates a limiter starting at initial requests per
// second, bounded by [min, max]. stepUp is added on success, stepDown is
// the multiplier applied on failure (e.g. 0.5 to halve).
func NewAdaptiveLimiter(initial, min, max rate.Limit, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if min <= 0 {
		min = rate.Limit(0.1)
	}
	if initial < min {
		initial = min
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, 1),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return a.limiter.Wait(ctx)
}

// Success nudges the rate up after a successful request. Recent failures
// suppress the bump so one good call does not undo a backoff.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.adjust(a.limiter.Limit() + a.stepUp)
	}
}

// Throttled reduces the rate after the remote side signalled overload.
func (a *AdaptiveLimiter) Throttled() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.adjust(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) adjust(l rate.Limit) {
	if l > a.maxLimit {
		l = a.maxLimit
	}
	if l < a.minLimit {
		l = a.minLimit
	}
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
	}
}

// FatalError wraps errors that must stop retries immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// RetryAfterError carries a server-provided cooldown hint (HTTP 429 with
// Retry-After). The retry loop sleeps for Delay instead of the backoff
// schedule and consumes exactly one extra attempt.
type RetryAfterError struct {
	Err   error
	Delay time.Duration
}

func (r *RetryAfterError) Error() string { return r.Err.Error() }
func (r *RetryAfterError) Unwrap() error { return r.Err }

// Config controls the retry loop.
type Config struct {
	MaxAttempts  int           // total attempts, must be >= 1
	InitialDelay time.Duration // delay before the second attempt
	MaxDelay     time.Duration // backoff ceiling
	Multiplier   float64       // exponential growth factor
	Jitter       bool          // add 0-25% random jitter to each delay
	OnRetry      func(attempt int, err error)
}

// DefaultConfig returns the settings used by the generation client.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Do executes fn with bounded retries and exponential backoff. The limiter
// gates every attempt. A RetryAfterError gets a single retry after its
// hinted delay; being throttled again ends the loop. Stops on success,
// FatalError, context cancellation, or attempt exhaustion; the last error
// is returned in the final case.
func Do(ctx context.Context, fn func() error, lim *AdaptiveLimiter, cfg Config) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	delay := cfg.InitialDelay
	var lastErr error
	usedRetryAfter := false

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}
		lastErr = err

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return fatal.Err
		}

		if attempt == cfg.MaxAttempts {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err)
		}

		sleep := delay
		var ra *RetryAfterError
		if errors.As(err, &ra) {
			if lim != nil {
				lim.Throttled()
			}
			if usedRetryAfter {
				return fmt.Errorf("still throttled after retry-after wait: %w", err)
			}
			usedRetryAfter = true
			sleep = ra.Delay
			log.Printf("[Retry] Throttled (attempt %d), honoring retry-after %v", attempt, sleep)
		} else {
			if lim != nil {
				lim.Throttled()
			}
			if cfg.Jitter {
				sleep = addJitter(sleep)
			}
			log.Printf("[Retry] Request failed (attempt %d): %v. Sleeping %v", attempt, err, sleep)
			delay = time.Duration(float64(delay) * cfg.Multiplier)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}

	return fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

// addJitter spreads delays by 0-25% to avoid synchronized retries.
func addJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)+1))
}
