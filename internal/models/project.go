package models

import (
	"time"

	"gorm.io/datatypes"
)

type Project struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CohortID    uint           `json:"cohort_id" gorm:"not null;index"`
	StudentID   uint           `json:"student_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null;size:200"`
	Description *string        `json:"description" gorm:"type:text"`
	VideoLinks  datatypes.JSON `json:"video_links" gorm:"type:jsonb"`
	PhotoURLs   datatypes.JSON `json:"photo_urls" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Cohort  *EnrollmentCohort `json:"cohort,omitempty" gorm:"foreignKey:CohortID"`
	Student *User             `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Stars   []ProjectStar     `json:"stars,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectStar is one appreciation from one user. The unique index keeps the
// star toggle idempotent at the database level.
type ProjectStar struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	ProjectID uint `json:"project_id" gorm:"not null;uniqueIndex:idx_project_star"`
	UserID    uint `json:"user_id" gorm:"not null;uniqueIndex:idx_project_star"`

	CreatedAt time.Time `json:"created_at"`
}

func (Project) TableName() string {
	return "projects"
}

func (ProjectStar) TableName() string {
	return "project_stars"
}
