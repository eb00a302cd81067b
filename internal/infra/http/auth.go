package http

import (
	"errors"
	"net/http"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/guard"

	"github.com/gin-gonic/gin"
)

const requestContextKey = "request_context"

// guarded runs the request gate and, on success, stores the RequestContext
// and applies the tenant rate limit. The guard itself knows nothing about
// HTTP; status mapping happens here and only here.
func (s *Server) guarded(expected domain.Provider, rule domain.AuthorizationRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.guard == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Code: "AUTH_CONFIG_ERROR", Message: "auth misconfigured"})
			return
		}
		rc, err := s.guard.Guard(c.Request, rule, expected)
		if err != nil {
			writeGuardError(c, err)
			c.Abort()
			return
		}
		if !s.enforceRateLimit(c, rc.Scope.TenantID()) {
			c.Abort()
			return
		}
		c.Set(requestContextKey, rc)
	}
}

func requestContext(c *gin.Context) (*guard.RequestContext, bool) {
	raw, ok := c.Get(requestContextKey)
	if !ok {
		return nil, false
	}
	rc, ok := raw.(*guard.RequestContext)
	return rc, ok
}

// writeGuardError maps the guard's tagged failures onto status codes:
// authentication 401, authorization 403, tenant resolution 400. Error kinds
// are safe to return; credentials and claim payloads never are.
func writeGuardError(c *gin.Context, err error) {
	var guardErr *domain.GuardError
	if !errors.As(err, &guardErr) {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	if authz, ok := domain.IsAuthzError(guardErr.Err); ok {
		c.JSON(http.StatusForbidden, errorResponse{
			Code:    authz.Code,
			Message: "forbidden",
			Missing: authz.Missing,
		})
		return
	}
	if tenant, ok := domain.IsTenantError(guardErr.Err); ok {
		switch tenant.Code {
		case domain.TenantAccessDenied:
			writeErrorCode(c, http.StatusForbidden, tenant.Code, "forbidden")
		default:
			writeErrorCode(c, http.StatusBadRequest, tenant.Code, "tenant could not be resolved")
		}
		return
	}
	if auth, ok := domain.IsAuthError(guardErr.Err); ok {
		switch auth.Code {
		case domain.AuthNoOrganization:
			writeErrorCode(c, http.StatusBadRequest, auth.Code, "organization claim required")
		case domain.AuthTimeout:
			writeErrorCode(c, http.StatusServiceUnavailable, auth.Code, "authentication backend timed out")
		default:
			writeErrorCode(c, http.StatusUnauthorized, auth.Code, "unauthorized")
		}
		return
	}
	if claims, ok := domain.IsClaimsError(guardErr.Err); ok {
		if claims.Code == domain.ClaimsTimeout {
			writeErrorCode(c, http.StatusServiceUnavailable, claims.Code, "key resolution timed out")
			return
		}
		writeErrorCode(c, http.StatusUnauthorized, claims.Code, "invalid bearer token")
		return
	}
	writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
}
