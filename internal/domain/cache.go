package domain

import (
	"context"
	"time"
)

// Cache is a key-value store with TTL. Keys handed to it are always full,
// tenant-prefixed keys; prefixing is the scoped accessor's job.
type Cache interface {
	Get(ctx context.Context, fullKey string) ([]byte, bool, error)
	Set(ctx context.Context, fullKey string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, fullKey string) error
}
