package models

import (
	"time"
)

type School struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"not null;size:200;index"`
	Address      *string `json:"address" gorm:"type:text"`
	City         *string `json:"city" gorm:"size:100"`
	ContactEmail *string `json:"contact_email" gorm:"size:255"`
	ContactPhone *string `json:"contact_phone" gorm:"size:20"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Labs []Lab `json:"labs,omitempty" gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE"`
}

type Lab struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	SchoolID    uint    `json:"school_id" gorm:"not null;index"`
	Name        string  `json:"name" gorm:"not null;size:200;index"`
	Description *string `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	School  *School            `json:"school,omitempty" gorm:"foreignKey:SchoolID"`
	Cohorts []EnrollmentCohort `json:"cohorts,omitempty" gorm:"foreignKey:LabID;constraint:OnDelete:CASCADE"`
}

func (School) TableName() string {
	return "schools"
}

func (Lab) TableName() string {
	return "labs"
}
