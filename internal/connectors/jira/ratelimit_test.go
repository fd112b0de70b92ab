package jira

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Wait_NoDelay(t *testing.T) {
	limiter := NewRateLimiter()

	start := time.Now()
	require.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiter_UpdateFromResponse_RetryAfter(t *testing.T) {
	limiter := NewRateLimiter()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRetryAfter, "1")
	limiter.UpdateFromResponse(resp)

	assert.True(t, limiter.notBefore.After(time.Now()))
}

func TestRateLimiter_UpdateFromResponse_Ignored(t *testing.T) {
	limiter := NewRateLimiter()

	// No header, junk values and nil responses leave state untouched.
	limiter.UpdateFromResponse(&http.Response{Header: http.Header{}})
	limiter.UpdateFromResponse(nil)

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRetryAfter, "soon")
	limiter.UpdateFromResponse(resp)

	resp.Header.Set(HeaderRetryAfter, "-3")
	limiter.UpdateFromResponse(resp)

	assert.True(t, limiter.notBefore.IsZero())
}

func TestRateLimiter_Wait_HonoursCancellation(t *testing.T) {
	limiter := NewRateLimiter()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRetryAfter, "30")
	limiter.UpdateFromResponse(resp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
