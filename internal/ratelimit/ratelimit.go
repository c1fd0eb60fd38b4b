// Package ratelimit provides an optional shared limiter for outbound calls;
// search.Client uses it to pace metasearch page requests, and LLM calls are
// not rate-limited. Grounded on anatolykoptev-go_job's use
// of golang.org/x/time/rate to pace outbound HTTP fan-out; adapted here as a
// nil-safe wrapper so callers that don't configure a limiter pay no cost,
// matching the spec's "no semaphore, backpressure is upstream" default.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter bounds the rate of outbound requests. A nil *Limiter is a valid,
// unbounded no-op.
type Limiter struct {
	inner *rate.Limiter
}

// New returns a Limiter allowing ratePerSecond requests/sec with the given
// burst. A non-positive ratePerSecond means unlimited (returns nil).
func New(ratePerSecond float64, burst int) *Limiter {
	if ratePerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{inner: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

// Wait blocks until a token is available, or ctx is done. Safe to call on a
// nil Limiter (returns immediately).
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.inner == nil {
		return nil
	}
	return l.inner.Wait(ctx)
}
