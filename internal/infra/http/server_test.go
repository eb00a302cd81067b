package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/config"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/guard"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/auth/rbac"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/scoped"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/sessionredis"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	testCookieName  = "upskill_session"
	testInternalKey = "internal-test-key"
	adminToken      = "tok-admin"
	learnerSession  = "sess-learner"
	noPermToken     = "tok-viewer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCookieAuth struct{}

func (stubCookieAuth) Authenticate(_ context.Context, sessionID string) (domain.Principal, error) {
	if sessionID == learnerSession {
		return domain.Principal{
			SubjectID:   "user-1",
			Email:       "learner@example.com",
			DisplayName: "Learner",
			Provider:    domain.ProviderSessionCookie,
			Roles:       []string{"learner"},
		}, nil
	}
	return domain.Principal{}, &domain.AuthError{Code: domain.AuthNoSession, Err: domain.ErrUnauthenticated}
}

type stubBearerAuth struct{}

func (stubBearerAuth) Authenticate(_ context.Context, token string) (domain.Principal, error) {
	switch token {
	case adminToken:
		return domain.Principal{
			SubjectID:   "auth0|admin",
			Provider:    domain.ProviderOAuthOrganization,
			Roles:       []string{"Employer Admin"},
			Permissions: []string{"manage_users", "upload_media", "view_reports"},
			TenantID:    "org_tenantA",
		}, nil
	case noPermToken:
		return domain.Principal{
			SubjectID: "auth0|viewer",
			Provider:  domain.ProviderOAuthOrganization,
			Roles:     []string{"Viewer"},
			TenantID:  "org_tenantA",
		}, nil
	}
	return domain.Principal{}, &domain.ClaimsError{Code: domain.ClaimsSignatureInvalid, Err: domain.ErrUnauthenticated}
}

type stubObjectStore struct {
	deletes int
	lastKey string
}

func (s *stubObjectStore) PresignUpload(_ context.Context, key, _ string, expiresIn time.Duration) (domain.PresignedURL, error) {
	return domain.PresignedURL{URL: "https://store.example.com/" + key, Key: key, ExpiresAt: time.Now().Add(expiresIn)}, nil
}

func (s *stubObjectStore) PresignDownload(_ context.Context, key string, expiresIn time.Duration) (domain.PresignedURL, error) {
	return domain.PresignedURL{URL: "https://store.example.com/" + key, Key: key, ExpiresAt: time.Now().Add(expiresIn)}, nil
}

func (s *stubObjectStore) Delete(_ context.Context, key string) error {
	s.deletes++
	s.lastKey = key
	return nil
}

func (s *stubObjectStore) Head(_ context.Context, key string) (domain.ObjectInfo, error) {
	return domain.ObjectInfo{Key: key}, nil
}

type stubLessonReader struct{}

func (stubLessonReader) List(context.Context, domain.TenantScope) ([]domain.Lesson, error) {
	return []domain.Lesson{{ID: "l1", Title: "Forklift Basics"}}, nil
}

func (stubLessonReader) GetByID(_ context.Context, _ domain.TenantScope, lessonID string) (*domain.Lesson, error) {
	if lessonID == "l1" {
		return &domain.Lesson{ID: "l1"}, nil
	}
	return nil, domain.ErrNotFound
}

type stubProgressStore struct {
	upserts int
}

func (s *stubProgressStore) Upsert(context.Context, domain.TenantScope, string, string, int) error {
	s.upserts++
	return nil
}

func (s *stubProgressStore) ForSubject(context.Context, domain.TenantScope, string) ([]domain.Progress, error) {
	return []domain.Progress{{SubjectID: "user-1", LessonID: "l1", Percent: 40}}, nil
}

type stubMembers struct{}

func (stubMembers) List(context.Context, domain.TenantScope) ([]domain.Member, error) {
	return []domain.Member{{SubjectID: "auth0|admin", Email: "admin@acme.example.com"}}, nil
}

type stubQuerier struct{}

func (stubQuerier) Rows(_ context.Context, _ domain.TenantScope, dest any, _ string, _ ...any) error {
	if rows, ok := dest.(*[]usecase.ProgressSummaryRow); ok {
		*rows = append(*rows, usecase.ProgressSummaryRow{LessonID: "l1", Learners: 3, AvgPercent: 66})
	}
	return nil
}

type allowAllPolicy struct{}

func (allowAllPolicy) Allow(context.Context, domain.Principal, string) (bool, error) {
	return true, nil
}

type testEnv struct {
	server  *Server
	objects *stubObjectStore
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		SessionCookieName: testCookieName,
		InternalAPIKey:    testInternalKey,
	}
	resolver := guard.NewResolver(testCookieName, stubCookieAuth{}, stubBearerAuth{})
	objects := &stubObjectStore{}
	deps := ServerDeps{
		Guard:    guard.New(resolver, rbac.NewGate()),
		Sessions: usecase.NewSessionService(sessionredis.NewMemoryStore(), time.Hour),
		Lessons:  usecase.NewLessonService(stubLessonReader{}, &stubProgressStore{}, nil),
		Media:    usecase.NewMediaService(scoped.NewObjects(objects, 0, 0)),
		Reports:  usecase.NewReportService(stubQuerier{}, allowAllPolicy{}),
		Members:  stubMembers{},
	}
	return &testEnv{server: NewServerWithDeps(cfg, nil, deps), objects: objects}
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func asLearner(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: learnerSession})
}

func asAdmin(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+adminToken)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLearnerProfile(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/v1/me", nil, asLearner)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["subject_id"] != "user-1" {
		t.Fatalf("body = %v", body)
	}
}

func TestLearnerRouteWithoutCredential(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/v1/me", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != domain.AuthNoSession {
		t.Fatalf("code = %s", resp.Code)
	}
}

func TestBearerOnLearnerRouteIsWrongProvider(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/v1/me", nil, asAdmin)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if resp := decodeError(t, rec); resp.Code != domain.AuthWrongProvider {
		t.Fatalf("code = %s", resp.Code)
	}
}

func TestCookieOnEmployerRouteIsWrongProvider(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/v1/org/members", nil, asLearner)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if resp := decodeError(t, rec); resp.Code != domain.AuthWrongProvider {
		t.Fatalf("code = %s", resp.Code)
	}
}

func TestListLessons(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/v1/lessons", nil, asLearner)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestRecordProgressInvalidPercent(t *testing.T) {
	env := newTestServer(t)
	body, _ := json.Marshal(map[string]int{"percent": 150})
	rec := env.do(t, http.MethodPut, "/v1/lessons/l1/progress", body, asLearner)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if resp := decodeError(t, rec); resp.Code != "INVALID_PERCENT" {
		t.Fatalf("code = %s", resp.Code)
	}
}

func TestOrgMembersRequiresRoleAndPermission(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodGet, "/v1/org/members", nil, asAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/v1/org/members", nil, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+noPermToken)
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("viewer status = %d body = %s", rec.Code, rec.Body.String())
	}
	resp := decodeError(t, rec)
	if resp.Code != domain.AuthzMissingRole {
		t.Fatalf("code = %s", resp.Code)
	}
	if len(resp.Missing) == 0 {
		t.Fatal("403 body must name the unmet requirement")
	}
}

func TestUploadURLScopedToTenant(t *testing.T) {
	env := newTestServer(t)
	body, _ := json.Marshal(map[string]any{
		"folder":    "uploads",
		"file_name": "logo.png",
	})
	rec := env.do(t, http.MethodPost, "/v1/org/media", body, asAdmin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var url domain.PresignedURL
	_ = json.Unmarshal(rec.Body.Bytes(), &url)
	if url.Key != "tenantA/uploads/logo.png" {
		t.Fatalf("key = %q", url.Key)
	}
}

func TestCrossTenantDeleteDenied(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodDelete, "/v1/org/media?key=tenantB/uploads/logo.png", nil, asAdmin)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if resp := decodeError(t, rec); resp.Code != domain.TenantAccessDenied {
		t.Fatalf("code = %s", resp.Code)
	}
	if env.objects.deletes != 0 {
		t.Fatal("cross-tenant delete must never reach the object store")
	}
}

func TestOwnTenantDelete(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodDelete, "/v1/org/media?key=tenantA/uploads/logo.png", nil, asAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if env.objects.deletes != 1 || env.objects.lastKey != "tenantA/uploads/logo.png" {
		t.Fatalf("deletes = %d key = %q", env.objects.deletes, env.objects.lastKey)
	}
}

func TestMediaUploadRequiresPermission(t *testing.T) {
	env := newTestServer(t)
	body, _ := json.Marshal(map[string]any{"folder": "uploads", "file_name": "a.png"})
	rec := env.do(t, http.MethodPost, "/v1/org/media", body, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+noPermToken)
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if resp := decodeError(t, rec); resp.Code != domain.AuthzMissingPermission {
		t.Fatalf("code = %s", resp.Code)
	}
}

func TestRunReport(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/v1/org/reports/"+usecase.ReportProgressSummary, nil, asAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Report string                       `json:"report"`
		Rows   []usecase.ProgressSummaryRow `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Rows) != 1 || body.Rows[0].Learners != 3 {
		t.Fatalf("rows = %v", body.Rows)
	}
}

func TestUnknownReportIs404(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/v1/org/reports/made-up", nil, asAdmin)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestMintSessionRequiresInternalKey(t *testing.T) {
	env := newTestServer(t)
	body, _ := json.Marshal(map[string]string{"subject_id": "user-9", "email": "u9@example.com"})

	rec := env.do(t, http.MethodPost, "/v1/auth/sessions", body, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without key = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/v1/auth/sessions", body, func(req *http.Request) {
		req.Header.Set("X-Internal-Key", "wrong")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status with wrong key = %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/v1/auth/sessions", body, func(req *http.Request) {
		req.Header.Set("X-Internal-Key", testInternalKey)
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status with key = %d body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["session_id"] == "" || resp["session_id"] == nil {
		t.Fatalf("body = %v", resp)
	}
}

func TestRateLimitEnforcedPerTenant(t *testing.T) {
	cfg := config.Config{
		SessionCookieName: testCookieName,
		RateLimitRequests: 2,
	}
	resolver := guard.NewResolver(testCookieName, stubCookieAuth{}, stubBearerAuth{})
	deps := ServerDeps{
		Guard:       guard.New(resolver, rbac.NewGate()),
		RateLimiter: newCountingLimiter(),
	}
	server := NewServerWithDeps(cfg, nil, deps)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		asLearner(req)
		last = httptest.NewRecorder()
		server.Handler().ServeHTTP(last, req)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d", last.Code)
	}
	if got := last.Header().Get("Retry-After"); got == "" {
		t.Fatal("denied response must carry Retry-After")
	}
}

type countingLimiter struct {
	counts map[string]int
}

func newCountingLimiter() *countingLimiter {
	return &countingLimiter{counts: map[string]int{}}
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	l.counts[key]++
	remaining := limit - l.counts[key]
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   l.counts[key] <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   time.Now().Add(window),
	}, nil
}

func TestNoRoute404(t *testing.T) {
	env := newTestServer(t)
	rec := env.do(t, http.MethodGet, "/v1/nope", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
