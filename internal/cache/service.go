package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
)

// GenericCacheService layers JSON encoding, key prefixing and a default TTL
// over a Cache. A nil *GenericCacheService and one built around a nil Cache
// both behave as a disabled cache.
type GenericCacheService struct {
	cache  Cache
	prefix string
	ttl    time.Duration

	hits   int64
	misses int64
	errors int64
}

// Stats is a point-in-time view of service counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Errors int64 `json:"errors"`
}

// NewGenericCacheService creates a new generic cache service
func NewGenericCacheService(cache Cache, prefix string, ttl time.Duration) *GenericCacheService {
	return &GenericCacheService{cache: cache, prefix: prefix, ttl: ttl}
}

// IsEnabled reports whether a backend is attached.
func (gcs *GenericCacheService) IsEnabled() bool {
	return gcs != nil && gcs.cache != nil
}

// GetCached retrieves and unmarshals cached data into target
func (gcs *GenericCacheService) GetCached(ctx context.Context, key string, target interface{}) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	fullKey := gcs.buildKey(key)
	data, err := gcs.cache.Get(ctx, fullKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			atomic.AddInt64(&gcs.misses, 1)
		} else {
			atomic.AddInt64(&gcs.errors, 1)
			log.Error("Cache get error for key %s: %v", fullKey, err)
		}
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		atomic.AddInt64(&gcs.errors, 1)
		log.Error("Cache data unmarshal error for key %s: %v", fullKey, err)
		return fmt.Errorf("%w: %v", ErrDeserializationFailed, err)
	}

	atomic.AddInt64(&gcs.hits, 1)
	return nil
}

// CacheData marshals and stores data using the service TTL
func (gcs *GenericCacheService) CacheData(ctx context.Context, key string, data interface{}) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		atomic.AddInt64(&gcs.errors, 1)
		return fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}

	fullKey := gcs.buildKey(key)
	if err := gcs.cache.Set(ctx, fullKey, jsonData, gcs.ttl); err != nil {
		atomic.AddInt64(&gcs.errors, 1)
		log.Error("Cache set error for key %s: %v", fullKey, err)
		return err
	}
	return nil
}

// InvalidatePattern removes all cache keys matching the given pattern
func (gcs *GenericCacheService) InvalidatePattern(ctx context.Context, pattern string) error {
	if !gcs.IsEnabled() {
		return ErrCacheDisabled
	}

	fullPattern := gcs.buildKey(pattern)
	if err := gcs.cache.DeletePattern(ctx, fullPattern); err != nil {
		atomic.AddInt64(&gcs.errors, 1)
		log.Error("Cache pattern invalidation error for pattern %s: %v", fullPattern, err)
		return err
	}
	return nil
}

// Stats returns the hit, miss and error counters.
func (gcs *GenericCacheService) Stats() Stats {
	if gcs == nil {
		return Stats{}
	}
	return Stats{
		Hits:   atomic.LoadInt64(&gcs.hits),
		Misses: atomic.LoadInt64(&gcs.misses),
		Errors: atomic.LoadInt64(&gcs.errors),
	}
}

// Close releases the backend.
func (gcs *GenericCacheService) Close() error {
	if !gcs.IsEnabled() {
		return nil
	}
	return gcs.cache.Close()
}

func (gcs *GenericCacheService) buildKey(key string) string {
	if gcs.prefix == "" {
		return key
	}
	return gcs.prefix + ":" + key
}
