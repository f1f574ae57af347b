// Package feeds combines the configured sources into the ordered headline
// list for one refresh pass.
package feeds

import (
	"context"
	"time"

	"github.com/deusflow/pronews/internal/cache"
	"github.com/deusflow/pronews/internal/logger"
	"github.com/deusflow/pronews/internal/metrics"
	"github.com/deusflow/pronews/internal/news"
	"github.com/deusflow/pronews/internal/ratelimit"
)

// Source is anything that can produce headlines. ID must be unique among
// the sources of one Collector; it is the cache key.
type Source interface {
	ID() string
	Fetch(ctx context.Context) ([]news.Item, error)
}

// Collector fetches all sources in declared order, serving each from a
// TTL cache while fresh.
type Collector struct {
	sources []Source
	cache   *cache.Cache[[]news.Item]
	limiter *ratelimit.FetchLimiter
	metrics *metrics.Metrics
}

func NewCollector(sources []Source, ttl time.Duration, limiter *ratelimit.FetchLimiter, m *metrics.Metrics) *Collector {
	if limiter == nil {
		limiter = ratelimit.NewFetchLimiter(0, 1)
	}
	if m == nil {
		m = metrics.New()
	}
	return &Collector{
		sources: append([]Source(nil), sources...),
		cache:   cache.New[[]news.Item](ttl),
		limiter: limiter,
		metrics: m,
	}
}

// WithClock swaps the cache clock; for tests.
func (c *Collector) WithClock(now func() time.Time) *Collector {
	c.cache.WithClock(now)
	return c
}

// Collect returns the concatenation of every source's items. A source that
// fails contributes nothing for this pass and does not affect the others.
func (c *Collector) Collect(ctx context.Context) []news.Item {
	var all []news.Item
	ok := 0

	for _, src := range c.sources {
		items, err := c.fetch(ctx, src)
		if err != nil {
			logger.Warn("feed fetch failed", "source", src.ID(), "error", err)
			c.metrics.RecordFeedFailure(src.ID() + ": " + err.Error())
			continue
		}
		all = append(all, items...)
		ok++
	}

	c.cache.Cleanup()
	logger.Debug("feeds collected", "ok", ok, "total", len(c.sources), "items", len(all))
	return all
}

func (c *Collector) fetch(ctx context.Context, src Source) ([]news.Item, error) {
	items, cached, err := c.cache.GetOrLoad(ctx, src.ID(), func(ctx context.Context) ([]news.Item, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		c.metrics.IncrementFeedFetches()
		items, err := src.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded feed", "source", src.ID(), "items", len(items))
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	if cached {
		c.metrics.IncrementCacheHits()
	} else {
		c.metrics.IncrementCacheMisses()
	}
	return items, nil
}
