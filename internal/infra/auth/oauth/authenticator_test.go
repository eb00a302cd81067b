package oauth

import (
	"context"
	"testing"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

const testNamespace = "https://upskill.app/"

type stubClaims struct {
	claims domain.Claims
	err    error
}

func (s *stubClaims) Extract(context.Context, string) (domain.Claims, error) {
	return s.claims, s.err
}

func TestAuthenticateProjectsNamespacedClaims(t *testing.T) {
	src := &stubClaims{claims: domain.Claims{
		"sub":   "auth0|abc123",
		"email": "admin@acme.example.com",
		"name":  "Acme Admin",
		testNamespace + "organization":      "org_ayHu5XNaTNHMasO5",
		testNamespace + "organization_name": "Acme Corp",
		testNamespace + "roles":             []any{"Employer Admin", "Employer Admin"},
		testNamespace + "permissions":       []any{"manage_users", "view_reports"},
	}}
	a := NewAuthenticator(src, testNamespace)

	p, err := a.Authenticate(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Provider != domain.ProviderOAuthOrganization {
		t.Fatalf("provider = %s", p.Provider)
	}
	if p.TenantID != "org_ayHu5XNaTNHMasO5" {
		t.Fatalf("tenant id = %q (raw claim must be preserved)", p.TenantID)
	}
	if len(p.Roles) != 1 || p.Roles[0] != "Employer Admin" {
		t.Fatalf("roles = %v (duplicates must collapse)", p.Roles)
	}
	if len(p.Permissions) != 2 {
		t.Fatalf("permissions = %v", p.Permissions)
	}
	if got := a.OrganizationName(src.claims); got != "Acme Corp" {
		t.Fatalf("organization name = %q", got)
	}
}

func TestAuthenticateIgnoresUnnamespacedClaims(t *testing.T) {
	src := &stubClaims{claims: domain.Claims{
		"sub":          "auth0|abc123",
		"organization": "org_x",
		"roles":        []any{"Employer Admin"},
	}}
	a := NewAuthenticator(src, testNamespace)
	_, err := a.Authenticate(context.Background(), "tok")
	ae, ok := domain.IsAuthError(err)
	if !ok || ae.Code != domain.AuthNoOrganization {
		t.Fatalf("expected NO_ORGANIZATION when the namespaced claim is absent, got %v", err)
	}
}

func TestAuthenticateMissingOrganization(t *testing.T) {
	src := &stubClaims{claims: domain.Claims{"sub": "auth0|abc123"}}
	a := NewAuthenticator(src, testNamespace)
	_, err := a.Authenticate(context.Background(), "tok")
	ae, ok := domain.IsAuthError(err)
	if !ok || ae.Code != domain.AuthNoOrganization {
		t.Fatalf("expected NO_ORGANIZATION, got %v", err)
	}
}

func TestAuthenticateClaimsTimeoutMapsToAuthTimeout(t *testing.T) {
	src := &stubClaims{err: &domain.ClaimsError{Code: domain.ClaimsTimeout, Err: context.DeadlineExceeded}}
	a := NewAuthenticator(src, testNamespace)
	_, err := a.Authenticate(context.Background(), "tok")
	ae, ok := domain.IsAuthError(err)
	if !ok || ae.Code != domain.AuthTimeout {
		t.Fatalf("expected AUTH_TIMEOUT, got %v", err)
	}
}

func TestAuthenticateClaimsErrorPassesThrough(t *testing.T) {
	src := &stubClaims{err: &domain.ClaimsError{Code: domain.ClaimsExpired}}
	a := NewAuthenticator(src, testNamespace)
	_, err := a.Authenticate(context.Background(), "tok")
	ce, ok := domain.IsClaimsError(err)
	if !ok || ce.Code != domain.ClaimsExpired {
		t.Fatalf("expected TOKEN_EXPIRED to pass through, got %v", err)
	}
}

func TestStringSetSpaceSeparated(t *testing.T) {
	got := stringSet("read:lessons write:lessons read:lessons")
	if len(got) != 2 || got[0] != "read:lessons" || got[1] != "write:lessons" {
		t.Fatalf("stringSet = %v", got)
	}
}
