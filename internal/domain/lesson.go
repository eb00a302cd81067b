package domain

import "time"

// Tenant is an isolation boundary: an employer organization or an individual
// learner.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Lesson is a published microlesson. Authoring and slide content live in the
// editor service; the platform core only lists and tracks progress.
type Lesson struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Title     string    `json:"title"`
	SlideKey  string    `json:"slide_key,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Progress is one learner's completion state for one lesson.
type Progress struct {
	SubjectID string    `json:"subject_id"`
	LessonID  string    `json:"lesson_id"`
	TenantID  string    `json:"tenant_id"`
	Percent   int       `json:"percent"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Member is one user of an employer organization, as shown in the portal.
type Member struct {
	SubjectID   string   `json:"subject_id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}
