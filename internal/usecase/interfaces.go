package usecase

import (
	"context"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

type LessonReader interface {
	List(ctx context.Context, scope domain.TenantScope) ([]domain.Lesson, error)
	GetByID(ctx context.Context, scope domain.TenantScope, lessonID string) (*domain.Lesson, error)
}

type ProgressStore interface {
	Upsert(ctx context.Context, scope domain.TenantScope, subjectID, lessonID string, percent int) error
	ForSubject(ctx context.Context, scope domain.TenantScope, subjectID string) ([]domain.Progress, error)
}

type MemberLister interface {
	List(ctx context.Context, scope domain.TenantScope) ([]domain.Member, error)
}

// ScopedCache is the tenant-prefixed cache accessor.
type ScopedCache interface {
	Get(ctx context.Context, scope domain.TenantScope, key string) ([]byte, bool, error)
	Set(ctx context.Context, scope domain.TenantScope, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, scope domain.TenantScope, key string) error
}

// ScopedObjects is the tenant-prefixed object store accessor.
type ScopedObjects interface {
	UploadURL(ctx context.Context, scope domain.TenantScope, folder, fileName, contentType string, expiresIn time.Duration) (domain.PresignedURL, error)
	DownloadURL(ctx context.Context, scope domain.TenantScope, key string, expiresIn time.Duration) (domain.PresignedURL, error)
	Delete(ctx context.Context, scope domain.TenantScope, key string) error
}

// ScopedQuerier runs parameterized reporting queries with the tenant filter
// merged in.
type ScopedQuerier interface {
	Rows(ctx context.Context, scope domain.TenantScope, dest any, query string, args ...any) error
}

// TenantStore provisions and reads tenant rows. Learner tenants are created
// lazily when a session is first minted.
type TenantStore interface {
	Create(ctx context.Context, tenant domain.Tenant) error
	GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
}

// ReportPolicy decides whether a principal may run a given report.
type ReportPolicy interface {
	Allow(ctx context.Context, principal domain.Principal, report string) (bool, error)
}
