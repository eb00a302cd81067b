package domain

import (
	"context"
	"time"
)

// SessionRecord is the server-side state behind an opaque session cookie.
type SessionRecord struct {
	SubjectID   string    `json:"subject_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (r SessionRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// SessionStore maps opaque session identifiers to session records. Get
// returns (nil, nil) when no record exists.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*SessionRecord, error)
	Put(ctx context.Context, sessionID string, record SessionRecord, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// RoleStore resolves explicit role assignments for session-cookie subjects.
// An empty result means the caller should fall back to the default role.
type RoleStore interface {
	RolesFor(ctx context.Context, subjectID string) ([]string, error)
}
