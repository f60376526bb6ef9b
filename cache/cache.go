// Package cache implements a small in-memory TTL cache used to avoid
// re-issuing identical upstream calls within a short window. Expired entries
// are collected lazily on read and by a periodic sweep; nothing is evicted
// eagerly on write. The cache is an explicitly owned object with a Stop hook
// for its sweeper, not a package-level singleton.
package cache

import (
	"sync"
	"time"

	"github.com/rxcompare/rxcompare-api/logging"
	"github.com/rxcompare/rxcompare-api/metrics"
)

const (
	// DefaultTTL matches the search-result freshness window.
	DefaultTTL = 5 * time.Minute

	sweepInterval = 60 * time.Second
)

type entry struct {
	data     any
	storedAt time.Time
}

// Cache is a mutex-guarded key/value store with a fixed TTL. All methods are
// safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// New creates a cache and starts its sweep goroutine. ttl <= 0 selects
// DefaultTTL. Callers own the cache and must call Stop on shutdown.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the stored value and whether it was present and fresh. Reading
// past expiry deletes the entry.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		metrics.CacheRequestTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	if time.Since(e.storedAt) > c.ttl {
		c.mu.Lock()
		// Recheck under the write lock; a Set may have raced the expiry.
		if cur, ok := c.entries[key]; ok && cur.storedAt == e.storedAt {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		metrics.CacheRequestTotal.WithLabelValues("expired").Inc()
		return nil, false
	}

	metrics.CacheRequestTotal.WithLabelValues("hit").Inc()
	return e.data, true
}

// Set stores a value under key, resetting its TTL window.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{data: value, storedAt: time.Now()}
	c.mu.Unlock()
}

// Len reports the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop terminates the sweep goroutine. Safe to call more than once.
func (c *Cache) Stop() {
	c.once.Do(func() { close(c.done) })
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.done:
			return
		}
	}
}

func (c *Cache) removeExpired() {
	now := time.Now()
	removed := 0

	c.mu.Lock()
	for key, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	remaining := len(c.entries)
	c.mu.Unlock()

	if removed > 0 {
		logging.Debug("Cache sweep completed", "removed", removed, "remaining", remaining)
	}
}
