package http

import (
	"errors"
	"net/http"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Code: code, Message: message})
}

// writeError maps service-layer failures. Cross-tenant denials are 403 and
// deliberately do not reveal whether the target exists.
func writeError(c *gin.Context, err error) {
	if authz, ok := domain.IsAuthzError(err); ok {
		c.JSON(http.StatusForbidden, errorResponse{Code: authz.Code, Message: "forbidden", Missing: authz.Missing})
		return
	}
	if tenant, ok := domain.IsTenantError(err); ok {
		writeErrorCode(c, http.StatusForbidden, tenant.Code, "forbidden")
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, domain.ErrUnauthenticated):
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeErrorCode(c, http.StatusForbidden, "FORBIDDEN", "forbidden")
	default:
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
