package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"

	"github.com/google/uuid"
)

// SessionService mints and revokes learner sessions. Minting is only reachable
// through the internal-key endpoint: the web frontend completes its own
// identity flow and then asks the platform for a session.
type SessionService struct {
	sessions domain.SessionStore
	tenants  TenantStore
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionService(sessions domain.SessionStore, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{sessions: sessions, ttl: ttl, now: time.Now}
}

// WithTenants enables lazy tenant provisioning: each subject is its own
// tenant, created on first mint.
func (s *SessionService) WithTenants(tenants TenantStore) *SessionService {
	s.tenants = tenants
	return s
}

func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *SessionService) Mint(ctx context.Context, subjectID, email, displayName string) (string, domain.SessionRecord, error) {
	if subjectID == "" || email == "" {
		return "", domain.SessionRecord{}, errors.New("subject id and email are required")
	}
	sessionID := uuid.NewString()
	record := domain.SessionRecord{
		SubjectID:   subjectID,
		Email:       email,
		DisplayName: displayName,
		ExpiresAt:   s.now().Add(s.ttl),
	}
	if err := s.sessions.Put(ctx, sessionID, record, s.ttl); err != nil {
		return "", domain.SessionRecord{}, err
	}
	if err := s.ensureTenant(ctx, subjectID, email, displayName); err != nil {
		return "", domain.SessionRecord{}, err
	}
	return sessionID, record, nil
}

func (s *SessionService) ensureTenant(ctx context.Context, subjectID, email, displayName string) error {
	if s.tenants == nil {
		return nil
	}
	_, err := s.tenants.GetByID(ctx, subjectID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	name := displayName
	if name == "" {
		name = email
	}
	return s.tenants.Create(ctx, domain.Tenant{
		ID:        subjectID,
		Name:      name,
		CreatedAt: s.now(),
	})
}

func (s *SessionService) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}
