package db

import (
	"context"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/scoped"
)

// LessonRepository reads published lessons. All access goes through the
// scoped DB so rows are always tenant-filtered.
type LessonRepository struct {
	db *scoped.DB
}

func NewLessonRepository(db *scoped.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) List(ctx context.Context, scope domain.TenantScope) ([]domain.Lesson, error) {
	var models []LessonModel
	if err := r.db.Find(ctx, scope, &models, ""); err != nil {
		return nil, err
	}
	lessons := make([]domain.Lesson, 0, len(models))
	for _, model := range models {
		lessons = append(lessons, lessonFromModel(model))
	}
	return lessons, nil
}

func (r *LessonRepository) GetByID(ctx context.Context, scope domain.TenantScope, lessonID string) (*domain.Lesson, error) {
	var model LessonModel
	if err := r.db.First(ctx, scope, &model, "id = ?", lessonID); err != nil {
		return nil, err
	}
	lesson := lessonFromModel(model)
	return &lesson, nil
}

func lessonFromModel(model LessonModel) domain.Lesson {
	return domain.Lesson{
		ID:        model.ID,
		TenantID:  model.TenantID,
		Title:     model.Title,
		SlideKey:  model.SlideKey,
		UpdatedAt: model.UpdatedAt,
	}
}
