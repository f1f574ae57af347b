package sentiment

import (
	"context"
	"time"

	"github.com/deusflow/pronews/internal/cache"
	"github.com/deusflow/pronews/internal/logger"
)

// Cached memoises another scorer per exact text for ttl, so a remote
// scorer returns the same value for repeated titles within a refresh cycle.
type Cached struct {
	next Scorer
	memo *cache.Cache[float64]
}

func NewCached(next Scorer, ttl time.Duration) *Cached {
	return &Cached{next: next, memo: cache.New[float64](ttl)}
}

// WithClock swaps the memo clock; for tests.
func (c *Cached) WithClock(now func() time.Time) *Cached {
	c.memo.WithClock(now)
	return c
}

func (c *Cached) Polarity(ctx context.Context, text string) (float64, error) {
	v, _, err := c.memo.GetOrLoad(ctx, text, func(ctx context.Context) (float64, error) {
		return c.next.Polarity(ctx, text)
	})
	return v, err
}

// Cleanup evicts expired memo entries. Callers sweep once per pass.
func (c *Cached) Cleanup() {
	c.memo.Cleanup()
}

// Len reports the number of memoised titles.
func (c *Cached) Len() int {
	return c.memo.Len()
}

// Fallback asks Primary first and uses Secondary when Primary fails.
type Fallback struct {
	Primary   Scorer
	Secondary Scorer
}

func (f Fallback) Polarity(ctx context.Context, text string) (float64, error) {
	v, err := f.Primary.Polarity(ctx, text)
	if err == nil {
		return v, nil
	}
	logger.Warn("primary sentiment scorer failed, using fallback", "error", err)
	return f.Secondary.Polarity(ctx, text)
}

func (f Fallback) Cleanup() {
	Sweep(f.Primary)
	Sweep(f.Secondary)
}

// Sweep evicts expired entries from s when it keeps any.
func Sweep(s Scorer) {
	if c, ok := s.(interface{ Cleanup() }); ok {
		c.Cleanup()
	}
}
