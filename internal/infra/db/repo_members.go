package db

import (
	"context"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/scoped"
)

type MemberRepository struct {
	db *scoped.DB
}

func NewMemberRepository(db *scoped.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) List(ctx context.Context, scope domain.TenantScope) ([]domain.Member, error) {
	var models []MemberModel
	if err := r.db.Find(ctx, scope, &models, ""); err != nil {
		return nil, err
	}
	members := make([]domain.Member, 0, len(models))
	for _, model := range models {
		members = append(members, domain.Member{
			SubjectID:   model.SubjectID,
			Email:       model.Email,
			DisplayName: model.DisplayName,
		})
	}
	return members, nil
}
