package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedFetches     int64
	FeedFailures    int64
	CacheHits       int64
	CacheMisses     int64
	ItemsClassified int64
	ItemErrors      int64
	Passes          int64

	// Timings
	LastPassDuration    time.Duration
	AveragePassDuration time.Duration
	TotalPassDuration   time.Duration

	// Status
	LastPassTime  time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) IncrementFeedFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFetches++
}

func (m *Metrics) IncrementCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *Metrics) IncrementCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *Metrics) IncrementItemsClassified() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsClassified++
}

// RecordFeedFailure counts a failed feed and remembers its error. Feed
// failures do not flip health: a pass with fewer items is still a pass.
func (m *Metrics) RecordFeedFailure(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedFailures++
	m.LastError = err
	m.LastErrorTime = time.Now()
}

func (m *Metrics) RecordItemError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemErrors++
	m.LastError = err
	m.LastErrorTime = time.Now()
}

func (m *Metrics) RecordPass(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Passes++
	m.LastPassDuration = duration
	m.TotalPassDuration += duration
	m.AveragePassDuration = m.TotalPassDuration / time.Duration(m.Passes)
	m.LastPassTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feed_fetches":          m.FeedFetches,
		"feed_failures":         m.FeedFailures,
		"cache_hits":            m.CacheHits,
		"cache_misses":          m.CacheMisses,
		"items_classified":      m.ItemsClassified,
		"item_errors":           m.ItemErrors,
		"passes":                m.Passes,
		"last_pass_duration_ms": m.LastPassDuration.Milliseconds(),
		"average_pass_ms":       m.AveragePassDuration.Milliseconds(),
		"last_pass_time":        m.LastPassTime.Format(time.RFC3339),
		"last_error_time":       m.LastErrorTime.Format(time.RFC3339),
		"last_error":            m.LastError,
		"is_healthy":            m.IsHealthy,
	}
}
