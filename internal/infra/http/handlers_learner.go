package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/usecase"

	"github.com/gin-gonic/gin"
)

type mintSessionRequest struct {
	SubjectID   string `json:"subject_id" binding:"required"`
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name"`
}

// handleMintSession is called by the web frontend after it has completed its
// own identity flow. It is protected by the internal key, not by the guard.
func (s *Server) handleMintSession(c *gin.Context) {
	if s.internalAPIKey == "" {
		writeErrorCode(c, http.StatusServiceUnavailable, "SESSION_MINT_DISABLED", "session minting is not configured")
		return
	}
	key := strings.TrimSpace(c.GetHeader("X-Internal-Key"))
	if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.internalAPIKey)) != 1 {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "internal key required")
		return
	}
	if s.sessionSvc == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "SESSIONS_UNAVAILABLE", "session store unavailable")
		return
	}

	var req mintSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "subject_id and email are required")
		return
	}
	sessionID, record, err := s.sessionSvc.Mint(c.Request.Context(), req.SubjectID, req.Email, req.DisplayName)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
		"expires_at": record.ExpiresAt,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	if s.sessionSvc != nil {
		if cookieValue, err := c.Cookie(s.cfg.SessionCookieName); err == nil {
			if err := s.sessionSvc.Revoke(c.Request.Context(), cookieValue); err != nil {
				writeError(c, err)
				return
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"subject_id": rc.Principal.SubjectID, "logged_out": true})
}

func (s *Server) handleProfile(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subject_id":   rc.Principal.SubjectID,
		"email":        rc.Principal.Email,
		"display_name": rc.Principal.DisplayName,
		"roles":        rc.Principal.Roles,
	})
}

func (s *Server) handleListLessons(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok || s.lessonSvc == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "LESSONS_UNAVAILABLE", "lesson service unavailable")
		return
	}
	lessons, err := s.lessonSvc.List(c.Request.Context(), rc.Scope)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

func (s *Server) handleListProgress(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok || s.lessonSvc == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "LESSONS_UNAVAILABLE", "lesson service unavailable")
		return
	}
	progress, err := s.lessonSvc.ProgressFor(c.Request.Context(), rc.Scope, rc.Principal)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

type recordProgressRequest struct {
	Percent *int `json:"percent" binding:"required"`
}

func (s *Server) handleRecordProgress(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok || s.lessonSvc == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "LESSONS_UNAVAILABLE", "lesson service unavailable")
		return
	}
	var req recordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Percent == nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "percent is required")
		return
	}
	lessonID := c.Param("lesson_id")
	if err := s.lessonSvc.RecordProgress(c.Request.Context(), rc.Scope, rc.Principal, lessonID, *req.Percent); err != nil {
		if errors.Is(err, usecase.ErrInvalidPercent) {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_PERCENT", err.Error())
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson_id": lessonID, "percent": *req.Percent})
}
