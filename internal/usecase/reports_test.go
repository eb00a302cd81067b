package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

type fakeQuerier struct {
	calls     int
	lastQuery string
	fill      func(dest any)
	err       error
}

func (f *fakeQuerier) Rows(_ context.Context, _ domain.TenantScope, dest any, query string, _ ...any) error {
	f.calls++
	f.lastQuery = query
	if f.err != nil {
		return f.err
	}
	if f.fill != nil {
		f.fill(dest)
	}
	return nil
}

type fakePolicy struct {
	allowed bool
	err     error
	calls   int
	report  string
}

func (f *fakePolicy) Allow(_ context.Context, _ domain.Principal, report string) (bool, error) {
	f.calls++
	f.report = report
	return f.allowed, f.err
}

func TestRunProgressSummary(t *testing.T) {
	db := &fakeQuerier{fill: func(dest any) {
		rows := dest.(*[]ProgressSummaryRow)
		*rows = append(*rows, ProgressSummaryRow{LessonID: "l1", Learners: 12, AvgPercent: 73.5})
	}}
	policy := &fakePolicy{allowed: true}
	svc := NewReportService(db, policy)

	result, err := svc.Run(context.Background(), testScope(t), domain.Principal{Roles: []string{"Employer Admin"}}, ReportProgressSummary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, ok := result.([]ProgressSummaryRow)
	if !ok || len(rows) != 1 || rows[0].Learners != 12 {
		t.Fatalf("result = %#v", result)
	}
	if policy.report != ReportProgressSummary {
		t.Fatalf("policy consulted for %q", policy.report)
	}
}

func TestRunPolicyDenied(t *testing.T) {
	db := &fakeQuerier{}
	svc := NewReportService(db, &fakePolicy{allowed: false})

	_, err := svc.Run(context.Background(), testScope(t), domain.Principal{}, ReportMemberActivity)
	authz, ok := domain.IsAuthzError(err)
	if !ok || authz.Code != domain.AuthzMissingPermission {
		t.Fatalf("expected MISSING_PERMISSION, got %v", err)
	}
	if db.calls != 0 {
		t.Fatal("denied report must never query the database")
	}
}

func TestRunPolicyError(t *testing.T) {
	db := &fakeQuerier{}
	policyErr := errors.New("policy backend down")
	svc := NewReportService(db, &fakePolicy{err: policyErr})

	_, err := svc.Run(context.Background(), testScope(t), domain.Principal{}, ReportProgressSummary)
	if !errors.Is(err, policyErr) {
		t.Fatalf("expected policy error, got %v", err)
	}
	if db.calls != 0 {
		t.Fatal("database must not run when policy evaluation fails")
	}
}

func TestRunUnknownReport(t *testing.T) {
	policy := &fakePolicy{allowed: true}
	svc := NewReportService(&fakeQuerier{}, policy)

	_, err := svc.Run(context.Background(), testScope(t), domain.Principal{}, "no-such-report")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if policy.calls != 0 {
		t.Fatal("unknown reports are rejected before the policy runs")
	}
}
