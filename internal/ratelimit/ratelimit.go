package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// FetchLimiter spaces outbound feed requests so a refresh burst does not
// hammer the upstream sites.
type FetchLimiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	granted  int
	waited   time.Duration
	rejected int
}

// NewFetchLimiter allows one request per interval with the given burst.
// A zero interval disables limiting.
func NewFetchLimiter(interval time.Duration, burst int) *FetchLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &FetchLimiter{
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Wait blocks until a request slot is free or ctx is done.
func (fl *FetchLimiter) Wait(ctx context.Context) error {
	start := time.Now()
	if err := fl.limiter.Wait(ctx); err != nil {
		fl.mu.Lock()
		fl.rejected++
		fl.mu.Unlock()
		return fmt.Errorf("fetch rate limit: %w", err)
	}

	fl.mu.Lock()
	fl.granted++
	fl.waited += time.Since(start)
	fl.mu.Unlock()
	return nil
}

// GetStats returns current limiter statistics
func (fl *FetchLimiter) GetStats() map[string]interface{} {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	return map[string]interface{}{
		"granted":       fl.granted,
		"rejected":      fl.rejected,
		"total_wait_ms": fl.waited.Milliseconds(),
		"limit_per_sec": limitPerSec(fl.limiter.Limit()),
		"burst":         fl.limiter.Burst(),
	}
}

// limitPerSec reports rate.Inf as 0 so the stats stay JSON-encodable.
func limitPerSec(l rate.Limit) float64 {
	if l == rate.Inf {
		return 0
	}
	return float64(l)
}
