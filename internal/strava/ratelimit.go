package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava enforces 100 requests per 15 minutes and 1000 per day. A sync run
// stays far below that, so the limiter only spaces requests and mirrors the
// usage Strava reports in response headers, which matters when another
// consumer shares the application quota.

// RateLimiter paces API requests and tracks quota usage.
type RateLimiter struct {
	mu sync.Mutex

	minInterval time.Duration
	lastRequest time.Time

	shortLimit int
	shortUsage int
	dailyLimit int
	dailyUsage int
}

// NewRateLimiter creates a limiter with Strava's published limits.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		minInterval: 150 * time.Millisecond,
		shortLimit:  100,
		dailyLimit:  1000,
	}
}

// Wait blocks until the minimum inter-request interval has elapsed.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	wait := r.minInterval - time.Since(r.lastRequest)
	r.mu.Unlock()

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	r.lastRequest = time.Now()
	r.mu.Unlock()
	return nil
}

// UpdateFromHeaders mirrors rate limit state from Strava response headers.
// Strava returns X-RateLimit-Limit: "100,1000" and X-RateLimit-Usage: "34,512".
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := parsePair(h.Get("X-RateLimit-Usage")); ok {
		r.shortUsage = short
		r.dailyUsage = daily
	}
	if short, daily, ok := parsePair(h.Get("X-RateLimit-Limit")); ok {
		r.shortLimit = short
		r.dailyLimit = daily
	}
}

// Status returns the remaining 15-minute and daily request budgets.
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shortLimit - r.shortUsage, r.dailyLimit - r.dailyUsage
}

func parsePair(v string) (short, daily int, ok bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	short, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	daily, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return short, daily, true
}
