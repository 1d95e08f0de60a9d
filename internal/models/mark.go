package models

import (
	"time"
)

type Mark struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EnrollmentID uint      `json:"enrollment_id" gorm:"not null;index"`
	Subject      string    `json:"subject" gorm:"not null;size:100"`
	Score        float64   `json:"score" gorm:"not null"`
	MaxScore     float64   `json:"max_score" gorm:"not null"`
	Remarks      *string   `json:"remarks" gorm:"type:text"`
	DateRecorded time.Time `json:"date_recorded" gorm:"not null;index"`
	RecordedBy   uint      `json:"recorded_by" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Enrollment *StudentEnrollment `json:"enrollment,omitempty" gorm:"foreignKey:EnrollmentID"`
	Recorder   *User              `json:"recorder,omitempty" gorm:"foreignKey:RecordedBy"`
}

func (Mark) TableName() string {
	return "marks"
}
