package domain

import (
	"context"
	"time"
)

// PresignedURL is a time-limited capability URL issued by the object store.
type PresignedURL struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStore is the contract the platform needs from its blob storage. Keys
// are full, tenant-prefixed paths.
type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string, expiresIn time.Duration) (PresignedURL, error)
	PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (PresignedURL, error)
	Delete(ctx context.Context, key string) error
	Head(ctx context.Context, key string) (ObjectInfo, error)
}
