package scoped

import (
	"context"
	"errors"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"

	"gorm.io/gorm"
)

// TenantOwned is implemented by models whose rows belong to a tenant. The
// scoped DB stamps the tenant id on writes; callers never set it themselves.
type TenantOwned interface {
	BindTenant(tenantID string)
}

// DB wraps the relational store so every statement carries the scope's
// tenant filter. It is the only path business logic has to shared tables.
type DB struct {
	db *gorm.DB
}

func NewDB(db *gorm.DB) *DB {
	return &DB{db: db}
}

func (d *DB) unavailable() bool {
	return d == nil || d.db == nil
}

// Find loads rows matching the optional condition, always constrained to the
// scope's tenant.
func (d *DB) Find(ctx context.Context, scope domain.TenantScope, dest any, cond string, args ...any) error {
	if d.unavailable() {
		return errDBUnavailable
	}
	tx := d.scopedTx(ctx, scope)
	if cond != "" {
		tx = tx.Where(cond, args...)
	}
	return tx.Find(dest).Error
}

func (d *DB) First(ctx context.Context, scope domain.TenantScope, dest any, cond string, args ...any) error {
	if d.unavailable() {
		return errDBUnavailable
	}
	tx := d.scopedTx(ctx, scope)
	if cond != "" {
		tx = tx.Where(cond, args...)
	}
	err := tx.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// Save stamps the tenant id onto the model before writing. Models that do not
// carry a tenant column are rejected.
func (d *DB) Save(ctx context.Context, scope domain.TenantScope, value any) error {
	if d.unavailable() {
		return errDBUnavailable
	}
	owned, ok := value.(TenantOwned)
	if !ok {
		return errNotTenantOwned
	}
	owned.BindTenant(scope.TenantID())
	return d.db.WithContext(ctx).Save(value).Error
}

// Rows runs a parameterized query wrapped so the tenant filter cannot be
// omitted: the caller's SQL becomes a subquery filtered by tenant_id.
func (d *DB) Rows(ctx context.Context, scope domain.TenantScope, dest any, query string, args ...any) error {
	if d.unavailable() {
		return errDBUnavailable
	}
	cond, tenantID := scope.QueryFilter()
	wrapped := "SELECT * FROM (" + query + ") AS scoped_rows WHERE " + cond
	return d.db.WithContext(ctx).Raw(wrapped, append(args, tenantID)...).Scan(dest).Error
}

func (d *DB) scopedTx(ctx context.Context, scope domain.TenantScope) *gorm.DB {
	cond, tenantID := scope.QueryFilter()
	return d.db.WithContext(ctx).Where(cond, tenantID)
}

var (
	errDBUnavailable  = errors.New("database unavailable")
	errNotTenantOwned = errors.New("model does not carry a tenant id")
)
