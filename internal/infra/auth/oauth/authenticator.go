package oauth

import (
	"context"
	"strings"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// ClaimsSource verifies a bearer credential and returns its decoded claims.
// Satisfied by the jwt.Extractor; tests substitute a stub.
type ClaimsSource interface {
	Extract(ctx context.Context, credential string) (domain.Claims, error)
}

// Claim names under the provider namespace.
const (
	claimRoles            = "roles"
	claimPermissions      = "permissions"
	claimOrganization     = "organization"
	claimOrganizationName = "organization_name"
)

// Authenticator builds organization principals from bearer tokens. Custom
// claims are read only under this provider's namespace; the session-cookie
// provider never sees them.
type Authenticator struct {
	claims    ClaimsSource
	namespace string
}

func NewAuthenticator(claims ClaimsSource, namespace string) *Authenticator {
	return &Authenticator{claims: claims, namespace: namespace}
}

func (a *Authenticator) Authenticate(ctx context.Context, bearerToken string) (domain.Principal, error) {
	if a == nil || a.claims == nil {
		return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: domain.ErrUnauthenticated}
	}
	claims, err := a.claims.Extract(ctx, bearerToken)
	if err != nil {
		if ce, ok := domain.IsClaimsError(err); ok && ce.Code == domain.ClaimsTimeout {
			return domain.Principal{}, &domain.AuthError{Code: domain.AuthTimeout, Err: err}
		}
		return domain.Principal{}, err
	}
	principal := a.project(claims)
	if principal.TenantID == "" {
		return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoOrganization, Err: domain.ErrUnauthenticated}
	}
	return principal, nil
}

func (a *Authenticator) project(claims domain.Claims) domain.Principal {
	principal := domain.Principal{Provider: domain.ProviderOAuthOrganization}
	if sub, _ := claims["sub"].(string); sub != "" {
		principal.SubjectID = sub
	}
	if email, _ := claims["email"].(string); email != "" {
		principal.Email = email
	}
	if name, _ := claims["name"].(string); name != "" {
		principal.DisplayName = name
	}
	if org, _ := claims[a.namespaced(claimOrganization)].(string); org != "" {
		principal.TenantID = org
	}
	principal.Roles = stringSet(claims[a.namespaced(claimRoles)])
	principal.Permissions = stringSet(claims[a.namespaced(claimPermissions)])
	return principal
}

func (a *Authenticator) namespaced(claim string) string {
	return a.namespace + claim
}

// OrganizationName reads the display name claim, for callers that already
// hold verified claims.
func (a *Authenticator) OrganizationName(claims domain.Claims) string {
	name, _ := claims[a.namespaced(claimOrganizationName)].(string)
	return name
}

func stringSet(raw any) []string {
	var values []string
	switch v := raw.(type) {
	case []any:
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				values = append(values, s)
			}
		}
	case []string:
		values = append(values, v...)
	case string:
		values = append(values, strings.Fields(v)...)
	}
	return dedupeStrings(values)
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
