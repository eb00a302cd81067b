package domain

// Provider identifies which authentication system issued the credential a
// Principal was built from. Downstream code must branch on this field only,
// never on the shape of the original request.
type Provider string

const (
	ProviderSessionCookie     Provider = "session_cookie"
	ProviderOAuthOrganization Provider = "oauth_organization"
)

// Claims is the decoded payload of a verified bearer credential. Custom
// claims are namespaced per provider; the other provider's resolver must not
// read them.
type Claims map[string]any

// Principal is the normalized identity of the caller for one request. It is
// built fresh by the resolver on every request and never persisted or cached.
type Principal struct {
	SubjectID   string
	Email       string
	DisplayName string
	Provider    Provider
	Roles       []string
	Permissions []string

	// TenantID carries the raw organization claim for organization
	// principals. Empty for session-cookie principals, which are scoped by
	// SubjectID instead.
	TenantID string
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) HasPermission(permission string) bool {
	for _, s := range p.Permissions {
		if s == permission {
			return true
		}
	}
	return false
}

// AuthorizationRule is declared per route at startup and never mutated.
// RequiredRoles use any-of semantics, RequiredPermissions all-of.
type AuthorizationRule struct {
	RequiredRoles       []string
	RequiredPermissions []string
}
