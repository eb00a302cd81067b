package usecase

import (
	"context"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// MediaService issues pre-signed URLs for tenant media (slide assets, logos)
// and removes objects. Everything funnels through the scoped accessor, which
// owns key construction and cross-tenant rejection.
type MediaService struct {
	objects ScopedObjects
}

func NewMediaService(objects ScopedObjects) *MediaService {
	return &MediaService{objects: objects}
}

func (s *MediaService) IssueUploadURL(ctx context.Context, scope domain.TenantScope, folder, fileName, contentType string, expiresIn time.Duration) (domain.PresignedURL, error) {
	return s.objects.UploadURL(ctx, scope, folder, fileName, contentType, expiresIn)
}

func (s *MediaService) IssueDownloadURL(ctx context.Context, scope domain.TenantScope, key string, expiresIn time.Duration) (domain.PresignedURL, error) {
	return s.objects.DownloadURL(ctx, scope, key, expiresIn)
}

func (s *MediaService) Remove(ctx context.Context, scope domain.TenantScope, key string) error {
	return s.objects.Delete(ctx, scope, key)
}
