package db

import (
	"context"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/scoped"
)

type ProgressRepository struct {
	db  *scoped.DB
	now func() time.Time
}

func NewProgressRepository(db *scoped.DB) *ProgressRepository {
	return &ProgressRepository{db: db, now: time.Now}
}

// Upsert writes one learner's completion state. The tenant id is stamped by
// the scoped DB, never taken from the input.
func (r *ProgressRepository) Upsert(ctx context.Context, scope domain.TenantScope, subjectID, lessonID string, percent int) error {
	model := ProgressModel{
		SubjectID: subjectID,
		LessonID:  lessonID,
		Percent:   percent,
		UpdatedAt: r.now(),
	}
	return r.db.Save(ctx, scope, &model)
}

func (r *ProgressRepository) ForSubject(ctx context.Context, scope domain.TenantScope, subjectID string) ([]domain.Progress, error) {
	var models []ProgressModel
	if err := r.db.Find(ctx, scope, &models, "subject_id = ?", subjectID); err != nil {
		return nil, err
	}
	progress := make([]domain.Progress, 0, len(models))
	for _, model := range models {
		progress = append(progress, domain.Progress{
			SubjectID: model.SubjectID,
			LessonID:  model.LessonID,
			TenantID:  model.TenantID,
			Percent:   model.Percent,
			UpdatedAt: model.UpdatedAt,
		})
	}
	return progress, nil
}
