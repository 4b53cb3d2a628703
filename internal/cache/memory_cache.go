package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

func (i *cacheItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryCache is a process-local Cache with TTL expiry and a size ceiling
type MemoryCache struct {
	mu        sync.RWMutex
	items     map[string]*cacheItem
	maxMemory int64
	used      int64
	now       func() time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewMemoryCache creates a memory cache. A positive cleanupInterval starts a
// background sweep of expired entries until Close is called.
func NewMemoryCache(maxMemory int64, cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		items:     make(map[string]*cacheItem),
		maxMemory: maxMemory,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.startCleanup(cleanupInterval)
	}
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || item.expired(c.now()) {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(item.value))
	copy(out, item.value)
	return out, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	item := &cacheItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.items[key]; ok {
		c.used -= itemSize(key, old)
	}
	c.items[key] = item
	c.used += itemSize(key, item)
	c.evictIfNeeded(key)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
	return nil
}

func (c *MemoryCache) DeletePattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if matched, _ := path.Match(pattern, key); matched {
			c.remove(key)
		}
	}
	return nil
}

// Len reports the number of stored entries, expired ones included until swept.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *MemoryCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryCache) cleanupExpired() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, item := range c.items {
		if item.expired(now) {
			c.remove(key)
		}
	}
}

// evictIfNeeded drops expired entries first, then arbitrary ones, until usage
// fits. The entry just written is kept. Caller holds the write lock.
func (c *MemoryCache) evictIfNeeded(keep string) {
	if c.maxMemory <= 0 || c.used <= c.maxMemory {
		return
	}
	now := c.now()
	for key, item := range c.items {
		if key != keep && item.expired(now) {
			c.remove(key)
		}
	}
	for key := range c.items {
		if c.used <= c.maxMemory {
			return
		}
		if key != keep {
			c.remove(key)
		}
	}
}

func (c *MemoryCache) remove(key string) {
	if item, ok := c.items[key]; ok {
		c.used -= itemSize(key, item)
		delete(c.items, key)
	}
}

func itemSize(key string, item *cacheItem) int64 {
	return int64(len(key) + len(item.value))
}
