package usecase

import (
	"context"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

// Report identifiers exposed to the employer portal.
const (
	ReportProgressSummary = "progress_summary"
	ReportMemberActivity  = "member_activity"
)

// reportQueries are predeclared; the caller picks an id, never supplies SQL.
// Each query keeps tenant_id in its projection so the scoped querier's outer
// filter applies.
var reportQueries = map[string]string{
	ReportProgressSummary: `SELECT lesson_id, tenant_id, COUNT(*) AS learners, AVG(percent) AS avg_percent
		FROM lesson_progress GROUP BY lesson_id, tenant_id`,
	ReportMemberActivity: `SELECT subject_id, tenant_id, COUNT(*) AS lessons_started, MAX(updated_at) AS last_active
		FROM lesson_progress GROUP BY subject_id, tenant_id`,
}

type ProgressSummaryRow struct {
	LessonID   string  `json:"lesson_id"`
	Learners   int     `json:"learners"`
	AvgPercent float64 `json:"avg_percent"`
}

type MemberActivityRow struct {
	SubjectID      string    `json:"subject_id"`
	LessonsStarted int       `json:"lessons_started"`
	LastActive     time.Time `json:"last_active"`
}

// ReportService runs administrative reports over shared tables. A policy
// check gates every run; the scoped querier guarantees tenant filtering.
type ReportService struct {
	db     ScopedQuerier
	policy ReportPolicy
}

func NewReportService(db ScopedQuerier, policy ReportPolicy) *ReportService {
	return &ReportService{db: db, policy: policy}
}

func (s *ReportService) Run(ctx context.Context, scope domain.TenantScope, principal domain.Principal, reportID string) (any, error) {
	query, ok := reportQueries[reportID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.policy != nil {
		allowed, err := s.policy.Allow(ctx, principal, reportID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, &domain.AuthzError{Code: domain.AuthzMissingPermission, Missing: []string{"view_reports"}, Err: domain.ErrForbidden}
		}
	}
	switch reportID {
	case ReportProgressSummary:
		var rows []ProgressSummaryRow
		if err := s.db.Rows(ctx, scope, &rows, query); err != nil {
			return nil, err
		}
		return rows, nil
	case ReportMemberActivity:
		var rows []MemberActivityRow
		if err := s.db.Rows(ctx, scope, &rows, query); err != nil {
			return nil, err
		}
		return rows, nil
	}
	return nil, domain.ErrNotFound
}
