package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
)

const (
	lessonListCacheKey = "lessons"
	lessonListCacheTTL = 5 * time.Minute
)

var ErrInvalidPercent = errors.New("percent must be between 0 and 100")

// LessonService lists lessons and records learner progress. Lesson lists are
// cached per tenant; progress writes invalidate nothing because the list does
// not include progress.
type LessonService struct {
	lessons  LessonReader
	progress ProgressStore
	cache    ScopedCache
}

func NewLessonService(lessons LessonReader, progress ProgressStore, cache ScopedCache) *LessonService {
	return &LessonService{lessons: lessons, progress: progress, cache: cache}
}

func (s *LessonService) List(ctx context.Context, scope domain.TenantScope) ([]domain.Lesson, error) {
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, scope, lessonListCacheKey); err == nil && ok {
			var cached []domain.Lesson
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}
	lessons, err := s.lessons.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(lessons); err == nil {
			_ = s.cache.Set(ctx, scope, lessonListCacheKey, raw, lessonListCacheTTL)
		}
	}
	return lessons, nil
}

func (s *LessonService) RecordProgress(ctx context.Context, scope domain.TenantScope, principal domain.Principal, lessonID string, percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidPercent
	}
	if _, err := s.lessons.GetByID(ctx, scope, lessonID); err != nil {
		return err
	}
	return s.progress.Upsert(ctx, scope, principal.SubjectID, lessonID, percent)
}

func (s *LessonService) ProgressFor(ctx context.Context, scope domain.TenantScope, principal domain.Principal) ([]domain.Progress, error) {
	return s.progress.ForSubject(ctx, scope, principal.SubjectID)
}
