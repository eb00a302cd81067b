package scoped

import (
	"context"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// Cache forces every cache operation through the tenant scope's key
// derivation. Callers hand over bare suffixes, never full keys.
type Cache struct {
	cache domain.Cache
}

func NewCache(cache domain.Cache) *Cache {
	return &Cache{cache: cache}
}

func (c *Cache) Get(ctx context.Context, scope domain.TenantScope, key string) ([]byte, bool, error) {
	if c == nil || c.cache == nil {
		return nil, false, nil
	}
	return c.cache.Get(ctx, scope.CacheKey(key))
}

func (c *Cache) Set(ctx context.Context, scope domain.TenantScope, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.Set(ctx, scope.CacheKey(key), value, ttl)
}

func (c *Cache) Delete(ctx context.Context, scope domain.TenantScope, key string) error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, scope.CacheKey(key))
}
