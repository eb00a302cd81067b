package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
)

// ClaimsError codes.
const (
	ClaimsMalformed        = "CLAIMS_MALFORMED"
	ClaimsSignatureInvalid = "SIGNATURE_INVALID"
	ClaimsExpired          = "TOKEN_EXPIRED"
	ClaimsNotYetValid      = "TOKEN_NOT_YET_VALID"
	ClaimsKeyNotFound      = "KEY_NOT_FOUND"
	ClaimsTimeout          = "CLAIMS_TIMEOUT"
)

// AuthError codes.
const (
	AuthNoSession      = "NO_SESSION"
	AuthNoOrganization = "NO_ORGANIZATION"
	AuthWrongProvider  = "WRONG_PROVIDER"
	AuthTimeout        = "AUTH_TIMEOUT"
)

// AuthzError codes.
const (
	AuthzMissingRole       = "MISSING_ROLE"
	AuthzMissingPermission = "MISSING_PERMISSION"
)

// TenantError codes.
const (
	TenantMissing      = "NO_TENANT"
	TenantAccessDenied = "ACCESS_DENIED"
)

// ClaimsError reports a credential that failed extraction or verification.
// All kinds are terminal; KEY_NOT_FOUND is surfaced only after bounded
// retries of transient key fetches.
type ClaimsError struct {
	Code string
	Err  error
}

func (e *ClaimsError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *ClaimsError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AuthError reports a failure to resolve a Principal from the request.
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *AuthError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AuthzError reports a role or permission check failure. Missing carries the
// unmet requirement so the route layer can name it in the 403 body.
type AuthzError struct {
	Code    string
	Missing []string
	Err     error
}

func (e *AuthzError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *AuthzError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// TenantError reports tenant derivation failures and cross-tenant access
// attempts.
type TenantError struct {
	Code string
	Err  error
}

func (e *TenantError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *TenantError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Guard stages, recorded on GuardError so callers can tell which step of the
// request gate failed.
const (
	GuardStageResolve   = "resolve"
	GuardStageAuthorize = "authorize"
	GuardStageScope     = "scope"
)

// GuardError wraps a failure from one of the guard stages.
type GuardError struct {
	Stage string
	Err   error
}

func (e *GuardError) Error() string {
	if e == nil {
		return ""
	}
	return e.Stage + ": " + e.Err.Error()
}

func (e *GuardError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsClaimsError(err error) (*ClaimsError, bool) {
	var ce *ClaimsError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func IsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsAuthzError(err error) (*AuthzError, bool) {
	var ae *AuthzError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsTenantError(err error) (*TenantError, bool) {
	var te *TenantError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
