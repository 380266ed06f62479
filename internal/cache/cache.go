package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry represents a cached value with expiration
type Entry struct {
	Value     interface{}
	ExpiresAt time.Time
}

// Cache is a small in-memory TTL cache with singleflight refills, used to
// absorb dashboard poll bursts in front of the aggregation engine. On a miss
// at most one fill per exact key is in flight; concurrent callers for the
// same key share its result and callers for other keys are never blocked.
type Cache struct {
	mu          sync.RWMutex
	items       map[string]Entry
	defaultTTL  time.Duration
	group       singleflight.Group
	stopCleanup chan struct{}
}

// New creates a new cache with the given default TTL
func New(defaultTTL time.Duration) *Cache {
	c := &Cache{
		items:       make(map[string]Entry),
		defaultTTL:  defaultTTL,
		stopCleanup: make(chan struct{}),
	}
	go c.cleanup()
	return c
}

// GetOrFill returns the cached value for key, or calls fill to produce it.
// Fill errors are not cached; the next caller retries.
func (c *Cache) GetOrFill(key string, fill func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: another caller may have filled while we queued.
		if value, ok := c.Get(key); ok {
			return value, nil
		}
		value, err := fill()
		if err != nil {
			return nil, err
		}
		c.Set(key, value)
		return value, nil
	})
	return value, err
}

// Get retrieves a value from the cache
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.items[key]
	if !exists || time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Value, true
}

// Set stores a value in the cache with the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Entry{
		Value:     value,
		ExpiresAt: time.Now().Add(c.defaultTTL),
	}
}

// Delete removes a value from the cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Stop stops the cleanup goroutine
func (c *Cache) Stop() {
	close(c.stopCleanup)
}

// cleanup removes expired entries periodically
func (c *Cache) cleanup() {
	ticker := time.NewTicker(c.defaultTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.items {
				if now.After(entry.ExpiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}
