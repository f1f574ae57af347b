package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type CacheItem[V any] struct {
	Value     V
	ExpiresAt time.Time
}

// Cache is a small TTL cache. Loads for the same key are collapsed into one
// in-flight call, and failed loads are never stored.
type Cache[V any] struct {
	mu    sync.RWMutex
	items map[string]CacheItem[V]
	ttl   time.Duration
	group singleflight.Group

	// now is swapped by tests.
	now func() time.Time
}

func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		items: make(map[string]CacheItem[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock replaces the time source. It must be called before the cache is shared.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.now = now
	return c
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = CacheItem[V]{
		Value:     value,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if !c.now().Before(item.ExpiresAt) {
		c.mu.Lock()
		// re-check: another caller may have refreshed it meanwhile
		if cur, ok := c.items[key]; ok && !c.now().Before(cur.ExpiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return zero, false
	}

	return item.Value, true
}

// GetOrLoad returns the fresh cached value for key, or runs load once and
// caches its result. The bool reports whether the value came from the cache.
// load gets a context that keeps ctx's values but not its cancellation;
// bound it with a client timeout.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	// shared by every waiter; a cancelled first caller must not fail the rest
	loadCtx := context.WithoutCancel(ctx)

	res, err, _ := c.group.Do(key, func() (interface{}, error) {
		// a concurrent Do for this key may have just filled it
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, false, err
	}
	return res.(V), false, nil
}

// Len reports the number of entries, including expired ones not yet evicted.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Cleanup drops every expired entry.
func (c *Cache[V]) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, item := range c.items {
		if !now.Before(item.ExpiresAt) {
			delete(c.items, key)
		}
	}
}
