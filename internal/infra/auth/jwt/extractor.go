package jwt

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// Extractor turns a compact signed-token string into verified claims. It
// consults a TTL-bound signing key cache keyed by kid; a cache miss falls
// through to a live JWKS fetch.
type Extractor struct {
	issuer   string
	audience string
	jwks     *jwksCache
	now      func() time.Time
}

type Option func(*Extractor)

func WithHTTPClient(client *http.Client) Option {
	return func(e *Extractor) {
		if client != nil {
			e.jwks.httpClient = client
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
			e.jwks.now = now
		}
	}
}

func NewExtractor(jwksURL, issuer, audience string, cacheTTL time.Duration, opts ...Option) *Extractor {
	e := &Extractor{
		issuer:   issuer,
		audience: audience,
		jwks:     newJWKSCache(jwksURL, nil, cacheTTL),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract verifies the credential and decodes its payload. Signature and
// time-window checks always run; skipping them is not a supported mode.
func (e *Extractor) Extract(ctx context.Context, credential string) (domain.Claims, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, claimsErr(domain.ClaimsMalformed, errors.New("empty credential"))
	}
	header, claims, signingInput, signature, err := parseCompact(credential)
	if err != nil {
		return nil, claimsErr(domain.ClaimsMalformed, err)
	}
	if alg, _ := header["alg"].(string); alg != "RS256" {
		return nil, claimsErr(domain.ClaimsSignatureInvalid, errors.New("unsupported alg"))
	}
	kid, _ := header["kid"].(string)
	pubKey, err := e.jwks.getKey(ctx, kid)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, claimsErr(domain.ClaimsTimeout, err)
		}
		return nil, claimsErr(domain.ClaimsKeyNotFound, err)
	}
	if err := verifyRS256(pubKey, signingInput, signature); err != nil {
		return nil, claimsErr(domain.ClaimsSignatureInvalid, err)
	}
	if err := e.checkTimeWindow(claims); err != nil {
		return nil, err
	}
	if err := e.checkIssuerAudience(claims); err != nil {
		return nil, claimsErr(domain.ClaimsSignatureInvalid, err)
	}
	return domain.Claims(claims), nil
}

func (e *Extractor) checkTimeWindow(claims map[string]any) error {
	now := e.now()
	exp, ok := parseNumericDate(claims["exp"])
	if !ok {
		return claimsErr(domain.ClaimsMalformed, errors.New("exp claim required"))
	}
	// exp must be strictly in the future.
	if !exp.After(now) {
		return claimsErr(domain.ClaimsExpired, errors.New("token expired"))
	}
	if nbf, ok := parseNumericDate(claims["nbf"]); ok {
		if nbf.After(now) {
			return claimsErr(domain.ClaimsNotYetValid, errors.New("token not yet valid"))
		}
	}
	return nil
}

func (e *Extractor) checkIssuerAudience(claims map[string]any) error {
	if e.issuer != "" {
		if iss, _ := claims["iss"].(string); iss != e.issuer {
			return errors.New("issuer mismatch")
		}
	}
	if e.audience != "" && !audienceMatches(claims["aud"], e.audience) {
		return errors.New("audience mismatch")
	}
	return nil
}

func claimsErr(code string, err error) *domain.ClaimsError {
	return &domain.ClaimsError{Code: code, Err: err}
}

func parseCompact(token string) (map[string]any, map[string]any, string, []byte, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, nil, "", nil, errors.New("token must have three segments")
	}
	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, "", nil, err
	}
	claimsBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, "", nil, err
	}
	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, nil, "", nil, err
	}
	var header map[string]any
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, nil, "", nil, err
	}
	var claims map[string]any
	if err := json.Unmarshal(claimsBytes, &claims); err != nil {
		return nil, nil, "", nil, err
	}
	return header, claims, parts[0] + "." + parts[1], signature, nil
}

func verifyRS256(pubKey *rsa.PublicKey, signingInput string, signature []byte) error {
	hash := sha256.Sum256([]byte(signingInput))
	return rsa.VerifyPKCS1v15(pubKey, crypto.SHA256, hash[:], signature)
}

func parseNumericDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(n, 0), true
	default:
		return time.Time{}, false
	}
}

func audienceMatches(raw any, expected string) bool {
	switch v := raw.(type) {
	case string:
		return v == expected
	case []any:
		for _, entry := range v {
			if s, ok := entry.(string); ok && s == expected {
				return true
			}
		}
	}
	return false
}
