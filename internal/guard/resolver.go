package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// CookieAuthenticator resolves an opaque session identifier to a learner
// principal.
type CookieAuthenticator interface {
	Authenticate(ctx context.Context, sessionID string) (domain.Principal, error)
}

// BearerAuthenticator resolves a bearer token to an organization principal.
type BearerAuthenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (domain.Principal, error)
}

// Resolver decides which provider authenticated a request and builds the
// Principal. The route declares the provider it expects; a credential from
// the other provider is rejected, never resolved. There is no cross-provider
// fallback: conflating the two systems is the failure mode this type exists
// to prevent.
type Resolver struct {
	cookieName string
	cookieAuth CookieAuthenticator
	bearerAuth BearerAuthenticator
}

func NewResolver(cookieName string, cookieAuth CookieAuthenticator, bearerAuth BearerAuthenticator) *Resolver {
	return &Resolver{
		cookieName: cookieName,
		cookieAuth: cookieAuth,
		bearerAuth: bearerAuth,
	}
}

func (r *Resolver) Resolve(req *http.Request, expected domain.Provider) (domain.Principal, error) {
	sessionID := r.sessionID(req)
	bearer := extractBearerToken(req.Header.Get("Authorization"))

	switch expected {
	case domain.ProviderSessionCookie:
		if sessionID == "" {
			if bearer != "" {
				return domain.Principal{}, &domain.AuthError{Code: domain.AuthWrongProvider, Err: domain.ErrUnauthenticated}
			}
			return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: domain.ErrUnauthenticated}
		}
		if r.cookieAuth == nil {
			return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: domain.ErrUnauthenticated}
		}
		return r.cookieAuth.Authenticate(req.Context(), sessionID)
	case domain.ProviderOAuthOrganization:
		if bearer == "" {
			if sessionID != "" {
				return domain.Principal{}, &domain.AuthError{Code: domain.AuthWrongProvider, Err: domain.ErrUnauthenticated}
			}
			return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: domain.ErrUnauthenticated}
		}
		if r.bearerAuth == nil {
			return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: domain.ErrUnauthenticated}
		}
		return r.bearerAuth.Authenticate(req.Context(), bearer)
	}
	return domain.Principal{}, &domain.AuthError{Code: domain.AuthWrongProvider, Err: domain.ErrUnauthenticated}
}

func (r *Resolver) sessionID(req *http.Request) string {
	if r.cookieName == "" {
		return ""
	}
	c, err := req.Cookie(r.cookieName)
	if err != nil || c == nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

func extractBearerToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(value), "bearer ") {
		return ""
	}
	return strings.TrimSpace(value[len("bearer "):])
}
