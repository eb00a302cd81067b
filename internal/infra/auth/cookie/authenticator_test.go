package cookie

import (
	"context"
	"testing"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

type fakeSessions struct {
	records map[string]*domain.SessionRecord
	err     error
}

func (f *fakeSessions) Get(_ context.Context, sessionID string) (*domain.SessionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[sessionID], nil
}

func (f *fakeSessions) Put(_ context.Context, sessionID string, record domain.SessionRecord, _ time.Duration) error {
	f.records[sessionID] = &record
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, sessionID string) error {
	delete(f.records, sessionID)
	return nil
}

type fakeRoles struct {
	roles map[string][]string
	err   error
}

func (f *fakeRoles) RolesFor(_ context.Context, subjectID string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles[subjectID], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAuthenticateValidSession(t *testing.T) {
	now := time.Now()
	sessions := &fakeSessions{records: map[string]*domain.SessionRecord{
		"sess-1": {SubjectID: "user-1", Email: "learner@example.com", DisplayName: "Learner", ExpiresAt: now.Add(time.Hour)},
	}}
	a := NewAuthenticator(sessions, &fakeRoles{}, time.Second).WithClock(fixedClock(now))

	p, err := a.Authenticate(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SubjectID != "user-1" || p.Email != "learner@example.com" {
		t.Fatalf("principal = %+v", p)
	}
	if p.Provider != domain.ProviderSessionCookie {
		t.Fatalf("provider = %s", p.Provider)
	}
	if len(p.Roles) != 1 || p.Roles[0] != DefaultRole {
		t.Fatalf("expected default role fallback, got %v", p.Roles)
	}
	if p.TenantID != "" {
		t.Fatal("session principals carry no organization claim")
	}
}

func TestAuthenticateAssignedRoles(t *testing.T) {
	now := time.Now()
	sessions := &fakeSessions{records: map[string]*domain.SessionRecord{
		"sess-1": {SubjectID: "user-1", ExpiresAt: now.Add(time.Hour)},
	}}
	roles := &fakeRoles{roles: map[string][]string{"user-1": {"learner", "mentor"}}}
	a := NewAuthenticator(sessions, roles, time.Second).WithClock(fixedClock(now))

	p, err := a.Authenticate(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Roles) != 2 || p.Roles[1] != "mentor" {
		t.Fatalf("roles = %v", p.Roles)
	}
}

func TestAuthenticateUnknownSession(t *testing.T) {
	a := NewAuthenticator(&fakeSessions{records: map[string]*domain.SessionRecord{}}, nil, time.Second)
	_, err := a.Authenticate(context.Background(), "sess-missing")
	ae, ok := domain.IsAuthError(err)
	if !ok || ae.Code != domain.AuthNoSession {
		t.Fatalf("expected NO_SESSION, got %v", err)
	}
}

func TestAuthenticateExpiredSession(t *testing.T) {
	now := time.Now()
	sessions := &fakeSessions{records: map[string]*domain.SessionRecord{
		"sess-1": {SubjectID: "user-1", ExpiresAt: now.Add(-time.Minute)},
	}}
	a := NewAuthenticator(sessions, nil, time.Second).WithClock(fixedClock(now))
	_, err := a.Authenticate(context.Background(), "sess-1")
	ae, ok := domain.IsAuthError(err)
	if !ok || ae.Code != domain.AuthNoSession {
		t.Fatalf("expected NO_SESSION for expired session, got %v", err)
	}
}

func TestAuthenticateStoreTimeout(t *testing.T) {
	sessions := &fakeSessions{err: context.DeadlineExceeded}
	a := NewAuthenticator(sessions, nil, time.Second)
	_, err := a.Authenticate(context.Background(), "sess-1")
	ae, ok := domain.IsAuthError(err)
	if !ok || ae.Code != domain.AuthTimeout {
		t.Fatalf("expected AUTH_TIMEOUT, got %v", err)
	}
}

func TestAuthenticateEmptySessionID(t *testing.T) {
	a := NewAuthenticator(&fakeSessions{records: map[string]*domain.SessionRecord{}}, nil, time.Second)
	_, err := a.Authenticate(context.Background(), "")
	ae, ok := domain.IsAuthError(err)
	if !ok || ae.Code != domain.AuthNoSession {
		t.Fatalf("expected NO_SESSION, got %v", err)
	}
}
