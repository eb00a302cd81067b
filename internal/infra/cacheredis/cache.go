package cacheredis

import (
	"context"
	"errors"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Cache is the redis-backed key-value store. It only ever sees full,
// tenant-prefixed keys; prefixing happens in the scoped accessor.
type Cache struct {
	client *redis.Client
}

func New(addr, password string, db int) (*Cache, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: client}, nil
}

func NewFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, fullKey string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *Cache) Set(ctx context.Context, fullKey string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, fullKey, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, fullKey string) error {
	return c.client.Del(ctx, fullKey).Err()
}

var _ domain.Cache = (*Cache)(nil)
