package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit
	Allow() bool
	// Wait blocks until the rate limit allows another request or ctx is done
	Wait(ctx context.Context) error
	// Reset resets the rate limiter state
	Reset()
}

// TokenBucket implements Limiter on top of golang.org/x/time/rate
type TokenBucket struct {
	limit   rate.Limit
	burst   int
	limiter *rate.Limiter
}

// NewTokenBucket creates a limiter that admits requestsPerSecond requests per
// second with bursts of up to burst requests. A non-positive rate disables limiting.
func NewTokenBucket(requestsPerSecond float64, burst int) *TokenBucket {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucket{
		limit:   limit,
		burst:   burst,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// NewPerInterval creates a limiter admitting n requests per interval
func NewPerInterval(n int, interval time.Duration) *TokenBucket {
	if n <= 0 || interval <= 0 {
		return NewTokenBucket(0, 1)
	}
	return NewTokenBucket(float64(n)/interval.Seconds(), n)
}

// Allow checks if a request can proceed
func (tb *TokenBucket) Allow() bool {
	return tb.limiter.Allow()
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	return tb.limiter.Wait(ctx)
}

// Reset restores the bucket to full capacity
func (tb *TokenBucket) Reset() {
	tb.limiter = rate.NewLimiter(tb.limit, tb.burst)
}

// Unlimited returns a limiter that never blocks
func Unlimited() *TokenBucket {
	return NewTokenBucket(0, 1)
}
