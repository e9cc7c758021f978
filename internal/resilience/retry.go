// Package resilience provides retry primitives for remote calls. Two retry
// shapes exist side by side: exponential backoff with jitter for transient
// network faults, and fixed-delay waits for throttling, where the server
// dictates the pace and backing off exponentially only wastes quota windows.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Action tells Do how to proceed after a failed attempt.
type Action int

const (
	// Stop aborts immediately; the error is not retryable.
	Stop Action = iota
	// Backoff retries after an exponentially growing, jittered delay.
	Backoff
	// FixedDelay retries after a flat delay (server-dictated or policy default).
	FixedDelay
)

// Classifier inspects an error and decides the retry action. For FixedDelay
// it may return the wait the server asked for; zero means use the policy's
// ThrottleDelay.
type Classifier func(err error) (Action, time.Duration)

// Policy controls retry behavior.
type Policy struct {
	// MaxAttempts is the total number of attempts including the first.
	// Default: 3.
	MaxAttempts int

	// InitialBackoff is the base delay for the Backoff action. Default: 500ms.
	InitialBackoff time.Duration

	// MaxBackoff caps the Backoff delay. Default: 30s.
	MaxBackoff time.Duration

	// Multiplier scales the backoff after each attempt. Default: 2.0.
	Multiplier float64

	// JitterFraction adds random jitter as a fraction of the computed backoff
	// (0.25 = ±25%). Default: 0.25.
	JitterFraction float64

	// ThrottleDelay is the wait for FixedDelay when the error carries no
	// server hint. Default: 30s.
	ThrottleDelay time.Duration

	// Classify overrides the default classification (IsTransient → Backoff).
	Classify Classifier

	// OnRetry is called before each retry sleep.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy returns the policy used for storefront API calls.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.25,
		ThrottleDelay:  30 * time.Second,
	}
}

// Do executes fn until it succeeds, the classifier says Stop, attempts run
// out, or the context is cancelled. The last error is returned.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal is Do for calls that return a value.
func DoVal[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	p = withDefaults(p)

	classify := p.Classify
	if classify == nil {
		classify = func(err error) (Action, time.Duration) {
			if IsTransient(err) {
				return Backoff, 0
			}
			return Stop, 0
		}
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}

		action, hint := classify(err)
		if action == Stop {
			return zero, lastErr
		}
		if attempt >= p.MaxAttempts-1 {
			break
		}

		var delay time.Duration
		switch action {
		case FixedDelay:
			delay = hint
			if delay <= 0 {
				delay = p.ThrottleDelay
			}
		default:
			delay = backoffDelay(attempt, p)
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}

	return zero, lastErr
}

func withDefaults(p Policy) Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = 500 * time.Millisecond
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 30 * time.Second
	}
	if p.Multiplier <= 0 {
		p.Multiplier = 2.0
	}
	if p.JitterFraction < 0 {
		p.JitterFraction = 0
	}
	if p.ThrottleDelay <= 0 {
		p.ThrottleDelay = 30 * time.Second
	}
	return p
}

func backoffDelay(attempt int, p Policy) time.Duration {
	delay := float64(p.InitialBackoff) * math.Pow(p.Multiplier, float64(attempt))
	if delay > float64(p.MaxBackoff) {
		delay = float64(p.MaxBackoff)
	}
	if p.JitterFraction > 0 {
		span := delay * p.JitterFraction
		delay += (rand.Float64()*2 - 1) * span
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// RetryLogger returns an OnRetry callback that logs each retry attempt.
func RetryLogger(service, operation string) func(int, time.Duration, error) {
	return func(attempt int, delay time.Duration, err error) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}
}
