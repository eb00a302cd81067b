package cookie

import (
	"context"
	"errors"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// DefaultRole is assigned when a subject has no explicit role assignment.
const DefaultRole = "learner"

// Authenticator builds learner principals from opaque session identifiers
// backed by a server-side session store.
type Authenticator struct {
	sessions domain.SessionStore
	roles    domain.RoleStore
	timeout  time.Duration
	now      func() time.Time
}

func NewAuthenticator(sessions domain.SessionStore, roles domain.RoleStore, timeout time.Duration) *Authenticator {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Authenticator{
		sessions: sessions,
		roles:    roles,
		timeout:  timeout,
		now:      time.Now,
	}
}

func (a *Authenticator) WithClock(now func() time.Time) *Authenticator {
	if now != nil {
		a.now = now
	}
	return a
}

func (a *Authenticator) Authenticate(ctx context.Context, sessionID string) (domain.Principal, error) {
	if a == nil || a.sessions == nil || sessionID == "" {
		return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: domain.ErrUnauthenticated}
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	record, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return domain.Principal{}, &domain.AuthError{Code: domain.AuthTimeout, Err: err}
		}
		return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: err}
	}
	if record == nil || record.Expired(a.now()) {
		return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: domain.ErrUnauthenticated}
	}

	roles := []string{DefaultRole}
	if a.roles != nil {
		assigned, err := a.roles.RolesFor(ctx, record.SubjectID)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return domain.Principal{}, &domain.AuthError{Code: domain.AuthTimeout, Err: err}
			}
			return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: err}
		}
		if len(assigned) > 0 {
			roles = assigned
		}
	}

	return domain.Principal{
		SubjectID:   record.SubjectID,
		Email:       record.Email,
		DisplayName: record.DisplayName,
		Provider:    domain.ProviderSessionCookie,
		Roles:       roles,
	}, nil
}
