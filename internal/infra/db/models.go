package db

import "time"

type TenantModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (TenantModel) TableName() string { return "tenants" }

type RoleAssignmentModel struct {
	SubjectID string    `gorm:"primaryKey;column:subject_id"`
	Role      string    `gorm:"primaryKey;column:role"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (RoleAssignmentModel) TableName() string { return "role_assignments" }

type LessonModel struct {
	ID        string    `gorm:"primaryKey;column:id"`
	TenantID  string    `gorm:"column:tenant_id;index"`
	Title     string    `gorm:"column:title"`
	SlideKey  string    `gorm:"column:slide_key"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (LessonModel) TableName() string { return "lessons" }

func (m *LessonModel) BindTenant(tenantID string) { m.TenantID = tenantID }

type ProgressModel struct {
	SubjectID string    `gorm:"primaryKey;column:subject_id"`
	LessonID  string    `gorm:"primaryKey;column:lesson_id"`
	TenantID  string    `gorm:"column:tenant_id;index"`
	Percent   int       `gorm:"column:percent"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ProgressModel) TableName() string { return "lesson_progress" }

func (m *ProgressModel) BindTenant(tenantID string) { m.TenantID = tenantID }

type MemberModel struct {
	SubjectID   string `gorm:"primaryKey;column:subject_id"`
	TenantID    string `gorm:"column:tenant_id;index"`
	Email       string `gorm:"column:email"`
	DisplayName string `gorm:"column:display_name"`
}

func (MemberModel) TableName() string { return "members" }

func (m *MemberModel) BindTenant(tenantID string) { m.TenantID = tenantID }
