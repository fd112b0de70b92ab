package jira

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate is the proactive throttle rate in requests per
	// second. Jira Data Center installs commonly cap anonymous bursts
	// well below this; the reactive Retry-After handling covers the
	// rest.
	ProactiveRate = 10

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter implements dual-strategy rate limiting for the Jira API:
// a proactive token bucket plus reactive handling of Retry-After
// responses.
type RateLimiter struct {
	mu        sync.Mutex
	bucket    *rate.Limiter
	notBefore time.Time // earliest time the next request may be sent
}

// NewRateLimiter creates a new rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	notBefore := r.notBefore
	r.mu.Unlock()

	if wait := time.Until(notBefore); wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil
}

// UpdateFromResponse records a server-requested delay from response
// headers.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	retryAfter := resp.Header.Get(HeaderRetryAfter)
	if retryAfter == "" {
		return
	}
	seconds, err := strconv.Atoi(retryAfter)
	if err != nil || seconds <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	candidate := time.Now().Add(time.Duration(seconds) * time.Second)
	if candidate.After(r.notBefore) {
		r.notBefore = candidate
	}
}
