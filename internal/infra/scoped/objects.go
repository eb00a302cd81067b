package scoped

import (
	"context"
	"errors"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

const (
	// Hard ceilings on pre-signed URL lifetimes.
	DefaultUploadURLMax   = 15 * time.Minute
	DefaultDownloadURLMax = time.Hour
)

// Objects wraps the object store so that upload keys are always built from
// the tenant scope and caller-supplied keys are validated against it before
// any call reaches the store.
type Objects struct {
	store       domain.ObjectStore
	uploadMax   time.Duration
	downloadMax time.Duration
}

func NewObjects(store domain.ObjectStore, uploadMax, downloadMax time.Duration) *Objects {
	if uploadMax <= 0 || uploadMax > DefaultUploadURLMax {
		uploadMax = DefaultUploadURLMax
	}
	if downloadMax <= 0 || downloadMax > DefaultDownloadURLMax {
		downloadMax = DefaultDownloadURLMax
	}
	return &Objects{store: store, uploadMax: uploadMax, downloadMax: downloadMax}
}

func (o *Objects) UploadURL(ctx context.Context, scope domain.TenantScope, folder, fileName, contentType string, expiresIn time.Duration) (domain.PresignedURL, error) {
	if o == nil || o.store == nil {
		return domain.PresignedURL{}, errObjectStoreUnavailable
	}
	if folder == "" || fileName == "" {
		return domain.PresignedURL{}, errors.New("folder and file name are required")
	}
	expiresIn = clamp(expiresIn, o.uploadMax)
	key := scope.ObjectPath(folder, fileName)
	return o.store.PresignUpload(ctx, key, contentType, expiresIn)
}

// DownloadURL takes a caller-supplied key and must prove it belongs to the
// tenant before issuing anything.
func (o *Objects) DownloadURL(ctx context.Context, scope domain.TenantScope, key string, expiresIn time.Duration) (domain.PresignedURL, error) {
	if o == nil || o.store == nil {
		return domain.PresignedURL{}, errObjectStoreUnavailable
	}
	if !scope.ValidatePath(key) {
		return domain.PresignedURL{}, accessDenied()
	}
	expiresIn = clamp(expiresIn, o.downloadMax)
	return o.store.PresignDownload(ctx, key, expiresIn)
}

// Delete rejects keys outside the tenant prefix without touching the store.
func (o *Objects) Delete(ctx context.Context, scope domain.TenantScope, key string) error {
	if o == nil || o.store == nil {
		return errObjectStoreUnavailable
	}
	if !scope.ValidatePath(key) {
		return accessDenied()
	}
	return o.store.Delete(ctx, key)
}

func (o *Objects) Head(ctx context.Context, scope domain.TenantScope, key string) (domain.ObjectInfo, error) {
	if o == nil || o.store == nil {
		return domain.ObjectInfo{}, errObjectStoreUnavailable
	}
	if !scope.ValidatePath(key) {
		return domain.ObjectInfo{}, accessDenied()
	}
	return o.store.Head(ctx, key)
}

func accessDenied() error {
	return &domain.TenantError{Code: domain.TenantAccessDenied, Err: domain.ErrForbidden}
}

func clamp(expiresIn, max time.Duration) time.Duration {
	if expiresIn <= 0 || expiresIn > max {
		return max
	}
	return expiresIn
}

var errObjectStoreUnavailable = errors.New("object store unavailable")
