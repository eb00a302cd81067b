package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListMembers(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok || s.members == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "MEMBERS_UNAVAILABLE", "member store unavailable")
		return
	}
	members, err := s.members.List(c.Request.Context(), rc.Scope)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tenant_id": rc.Scope.TenantID(),
		"members":   members,
	})
}

type uploadURLRequest struct {
	Folder           string `json:"folder" binding:"required"`
	FileName         string `json:"file_name" binding:"required"`
	ContentType      string `json:"content_type"`
	ExpiresInSeconds int    `json:"expires_in_seconds"`
}

func (s *Server) handleUploadURL(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok || s.mediaSvc == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "MEDIA_UNAVAILABLE", "object store unavailable")
		return
	}
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "folder and file_name are required")
		return
	}
	url, err := s.mediaSvc.IssueUploadURL(c.Request.Context(), rc.Scope, req.Folder, req.FileName, req.ContentType, time.Duration(req.ExpiresInSeconds)*time.Second)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, url)
}

func (s *Server) handleDownloadURL(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok || s.mediaSvc == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "MEDIA_UNAVAILABLE", "object store unavailable")
		return
	}
	key := c.Query("key")
	if key == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "key is required")
		return
	}
	expiresIn := time.Duration(queryInt(c, "expires_in_seconds")) * time.Second
	url, err := s.mediaSvc.IssueDownloadURL(c.Request.Context(), rc.Scope, key, expiresIn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, url)
}

func (s *Server) handleDeleteMedia(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok || s.mediaSvc == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "MEDIA_UNAVAILABLE", "object store unavailable")
		return
	}
	key := c.Query("key")
	if key == "" {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "key is required")
		return
	}
	if err := s.mediaSvc.Remove(c.Request.Context(), rc.Scope, key); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "deleted": true})
}

func (s *Server) handleRunReport(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok || s.reportSvc == nil {
		writeErrorCode(c, http.StatusServiceUnavailable, "REPORTS_UNAVAILABLE", "report service unavailable")
		return
	}
	reportID := c.Param("report_id")
	rows, err := s.reportSvc.Run(c.Request.Context(), rc.Scope, rc.Principal, reportID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": reportID, "rows": rows})
}

func queryInt(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
