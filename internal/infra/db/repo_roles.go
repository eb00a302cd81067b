package db

import (
	"context"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"

	"gorm.io/gorm"
)

// RoleRepository resolves explicit role assignments for session subjects.
// Assignments are keyed by subject only; session-cookie principals are their
// own tenant, so no tenant column applies here.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) RolesFor(ctx context.Context, subjectID string) ([]string, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []RoleAssignmentModel
	err := r.db.WithContext(ctx).Where("subject_id = ?", subjectID).Find(&models).Error
	if err != nil {
		return nil, err
	}
	roles := make([]string, 0, len(models))
	for _, model := range models {
		roles = append(roles, model.Role)
	}
	return roles, nil
}

var _ domain.RoleStore = (*RoleRepository)(nil)
