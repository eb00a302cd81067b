package domain

import "strings"

// OrganizationIDPrefix is the fixed prefix the OAuth provider puts in front
// of organization identifiers. It is stripped when deriving a tenant id.
const OrganizationIDPrefix = "org_"

// TenantScope is the canonical isolation boundary for one request. It is
// derived exactly once from a verified Principal and is immutable; it must
// never be built from client-supplied parameters.
type TenantScope struct {
	tenantID string
}

// ScopeFromPrincipal derives the tenant id for a request. Organization
// principals are scoped by their organization claim with the provider prefix
// stripped; session-cookie principals are their own tenant, scoped by
// subject id.
func ScopeFromPrincipal(p Principal) (TenantScope, error) {
	switch p.Provider {
	case ProviderOAuthOrganization:
		if p.TenantID == "" {
			return TenantScope{}, &TenantError{Code: TenantMissing, Err: ErrForbidden}
		}
		return TenantScope{tenantID: strings.TrimPrefix(p.TenantID, OrganizationIDPrefix)}, nil
	case ProviderSessionCookie:
		if p.SubjectID == "" {
			return TenantScope{}, &TenantError{Code: TenantMissing, Err: ErrForbidden}
		}
		return TenantScope{tenantID: p.SubjectID}, nil
	}
	return TenantScope{}, &TenantError{Code: TenantMissing, Err: ErrForbidden}
}

func (s TenantScope) TenantID() string {
	return s.tenantID
}

// CacheKey returns the tenant-prefixed cache key. Every cache access goes
// through this.
func (s TenantScope) CacheKey(suffix string) string {
	return s.tenantID + ":" + suffix
}

// ObjectPath returns the tenant-prefixed object key.
func (s TenantScope) ObjectPath(folder, fileName string) string {
	return s.tenantID + "/" + folder + "/" + fileName
}

// ValidatePath reports whether a caller-supplied object key or cache key
// belongs to this tenant. Checked before any external I/O is issued.
func (s TenantScope) ValidatePath(path string) bool {
	if s.tenantID == "" {
		return false
	}
	return strings.HasPrefix(path, s.tenantID+"/") || strings.HasPrefix(path, s.tenantID+":")
}

// QueryFilter returns the bound condition that constrains relational queries
// to rows owned by this tenant.
func (s TenantScope) QueryFilter() (string, any) {
	return "tenant_id = ?", s.tenantID
}
