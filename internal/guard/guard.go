package guard

import (
	"net/http"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// Authorizer evaluates a rule against a principal. Satisfied by rbac.Gate.
type Authorizer interface {
	Authorize(principal domain.Principal, rule domain.AuthorizationRule) error
}

// RequestContext is handed to business logic after the guard succeeds. It is
// owned by one request and never shared or stored across requests.
type RequestContext struct {
	Principal domain.Principal
	Scope     domain.TenantScope
}

// Guard is the single composition point every route goes through: resolve the
// principal, authorize it, derive the tenant scope. The three steps are
// strictly ordered and none may be skipped; each failure is tagged with the
// stage that produced it. Authentication and authorization failures are never
// retried.
type Guard struct {
	resolver *Resolver
	gate     Authorizer
}

func New(resolver *Resolver, gate Authorizer) *Guard {
	return &Guard{resolver: resolver, gate: gate}
}

func (g *Guard) Guard(req *http.Request, rule domain.AuthorizationRule, expected domain.Provider) (*RequestContext, error) {
	principal, err := g.resolver.Resolve(req, expected)
	if err != nil {
		return nil, &domain.GuardError{Stage: domain.GuardStageResolve, Err: err}
	}
	if err := g.gate.Authorize(principal, rule); err != nil {
		return nil, &domain.GuardError{Stage: domain.GuardStageAuthorize, Err: err}
	}
	scope, err := domain.ScopeFromPrincipal(principal)
	if err != nil {
		return nil, &domain.GuardError{Stage: domain.GuardStageScope, Err: err}
	}
	return &RequestContext{Principal: principal, Scope: scope}, nil
}
