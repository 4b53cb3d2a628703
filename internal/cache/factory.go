package cache

import (
	"context"
	"fmt"

	"github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
)

// NewCache builds the backend selected by cfg.Backend. It returns (nil, nil)
// when caching is disabled.
func NewCache(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case config.CacheBackendMemory:
		return NewMemoryCache(cfg.MaxMemory, cfg.CleanupInterval), nil
	case config.CacheBackendRedis:
		return NewRedisCache(ctx, RedisOptions{
			Address:      cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			Database:     cfg.Redis.Database,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidCacheType, cfg.Backend)
	}
}
