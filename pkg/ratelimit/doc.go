// Package ratelimit throttles outgoing requests to VK.
//
// VK allows a handful of API calls per second per token and answers error 6
// when the limit is exceeded. TokenBucket wraps golang.org/x/time/rate and
// is shared by the API client and the page scraper.
//
// Usage:
//
//	// 3 requests per second with bursts of 3
//	limiter := ratelimit.NewTokenBucket(3, 3)
//
//	if err := limiter.Wait(ctx); err != nil {
//	    return err // context cancelled
//	}
//	// Proceed with request
//
// Unlimited returns a limiter that never blocks, for tests and local mirrors.
package ratelimit
