package kick

import (
	"context"
	"sync"

	"github.com/RyanBlaney/sonido-kick/logging"
)

// AnalyzeFunc computes the analysis for a cache miss.
type AnalyzeFunc func(ctx context.Context) (*Analysis, error)

// Cache holds one Analysis per source identifier. A source is analyzed on
// first request and reused afterwards.
type Cache struct {
	entries map[string]*cacheEntry
	mtx     sync.Mutex
	logger  logging.Logger
}

type cacheEntry struct {
	done     chan struct{}
	analysis *Analysis
	err      error
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		logger: logging.WithFields(logging.Fields{
			"component": "analysis_cache",
		}),
	}
}

// GetOrCreate returns the cached analysis for key, running fn on a miss.
// Callers arriving while fn runs for the same key wait for its result.
// Failed analyses are not cached.
func (c *Cache) GetOrCreate(ctx context.Context, key string, fn AnalyzeFunc) (*Analysis, error) {
	logger := c.logger.WithContext(ctx).WithFields(logging.Fields{
		"function": "GetOrCreate",
		"key":      key,
	})

	c.mtx.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mtx.Unlock()

		select {
		case <-entry.done:
			logger.Debug("Cache hit")
			return entry.analysis, entry.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	entry := &cacheEntry{done: make(chan struct{})}
	c.entries[key] = entry
	c.mtx.Unlock()

	logger.Debug("Cache miss, analyzing")

	// Waiters are released and failures evicted even if fn panics.
	finished := false
	defer func() {
		if !finished {
			entry.analysis, entry.err = nil, ErrAnalysisPanicked
			logger.Error(entry.err, "Analysis panicked, not caching")
		}
		if entry.err != nil {
			c.mtx.Lock()
			if c.entries[key] == entry {
				delete(c.entries, key)
			}
			c.mtx.Unlock()
		}
		close(entry.done)
	}()

	entry.analysis, entry.err = fn(ctx)
	finished = true
	if entry.err != nil {
		logger.Error(entry.err, "Analysis failed, not caching")
	}

	return entry.analysis, entry.err
}

// Get returns a completed analysis without blocking.
func (c *Cache) Get(key string) (*Analysis, bool) {
	c.mtx.Lock()
	entry, ok := c.entries[key]
	c.mtx.Unlock()

	if !ok {
		return nil, false
	}

	select {
	case <-entry.done:
		return entry.analysis, entry.err == nil
	default:
		return nil, false
	}
}

// Delete drops key from the cache. Callers already waiting on an in-flight
// analysis still receive its result.
func (c *Cache) Delete(key string) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	delete(c.entries, key)
}

// Len returns the number of cached and in-flight entries.
func (c *Cache) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return len(c.entries)
}
