package rbac

import (
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// Gate evaluates an AuthorizationRule against a Principal. Pure function, no
// I/O: required roles pass on any match, required permissions must all be
// present.
type Gate struct{}

func NewGate() *Gate {
	return &Gate{}
}

func (g *Gate) Authorize(principal domain.Principal, rule domain.AuthorizationRule) error {
	if len(rule.RequiredRoles) > 0 && !anyRole(principal, rule.RequiredRoles) {
		return &domain.AuthzError{
			Code:    domain.AuthzMissingRole,
			Missing: append([]string(nil), rule.RequiredRoles...),
			Err:     domain.ErrForbidden,
		}
	}
	if missing := missingPermissions(principal, rule.RequiredPermissions); len(missing) > 0 {
		return &domain.AuthzError{
			Code:    domain.AuthzMissingPermission,
			Missing: missing,
			Err:     domain.ErrForbidden,
		}
	}
	return nil
}

func anyRole(principal domain.Principal, roles []string) bool {
	for _, role := range roles {
		if principal.HasRole(role) {
			return true
		}
	}
	return false
}

func missingPermissions(principal domain.Principal, required []string) []string {
	var missing []string
	for _, permission := range required {
		if !principal.HasPermission(permission) {
			missing = append(missing, permission)
		}
	}
	return missing
}
