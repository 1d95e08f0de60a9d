package models

import (
	"time"
)

type LabSection string

const (
	SectionCFLC LabSection = "CFLC"
	SectionGrok LabSection = "GROK"
)

type GrokSpecialization string

const (
	GrokIOT             GrokSpecialization = "IOT"
	GrokRobotics        GrokSpecialization = "Robotics"
	Grok3DPrinting      GrokSpecialization = "3D Printing"
	GrokABCOfTechnology GrokSpecialization = "ABC of Technology"
)

// EnrollmentCohort is a batch of students taught together in a lab for one
// academic year, standard and section. The cohort name is generated on
// creation and never entered by hand.
type EnrollmentCohort struct {
	ID                 uint                `json:"id" gorm:"primaryKey"`
	LabID              uint                `json:"lab_id" gorm:"not null;index"`
	AcademicYear       int                 `json:"academic_year" gorm:"not null"`
	Section            LabSection          `json:"section" gorm:"not null;size:10;index"`
	Standard           int                 `json:"standard" gorm:"not null"`
	BatchName          string              `json:"batch_name" gorm:"not null;size:150"`
	GrokSpecialization *GrokSpecialization `json:"grok_specialization" gorm:"size:30;index"`
	SemesterStart      *time.Time          `json:"semester_start"`
	SemesterEnd        *time.Time          `json:"semester_end"`
	CreatedBy          uint                `json:"created_by" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Lab         *Lab                `json:"lab,omitempty" gorm:"foreignKey:LabID"`
	Creator     *User               `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Enrollments []StudentEnrollment `json:"enrollments,omitempty" gorm:"foreignKey:CohortID;constraint:OnDelete:CASCADE"`
	Teachers    []CohortTeacher     `json:"teachers,omitempty" gorm:"foreignKey:CohortID;constraint:OnDelete:CASCADE"`
	Projects    []Project           `json:"projects,omitempty" gorm:"foreignKey:CohortID;constraint:OnDelete:CASCADE"`
}

type StudentEnrollment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CohortID  uint `json:"cohort_id" gorm:"not null;uniqueIndex:idx_cohort_student"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_cohort_student;index"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Cohort  *EnrollmentCohort `json:"cohort,omitempty" gorm:"foreignKey:CohortID"`
	Student *User             `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Marks   []Mark            `json:"marks,omitempty" gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE"`
}

type CohortTeacher struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CohortID  uint `json:"cohort_id" gorm:"not null;uniqueIndex:idx_cohort_teacher"`
	TeacherID uint `json:"teacher_id" gorm:"not null;uniqueIndex:idx_cohort_teacher;index"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Cohort  *EnrollmentCohort `json:"cohort,omitempty" gorm:"foreignKey:CohortID"`
	Teacher *User             `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}

func (EnrollmentCohort) TableName() string {
	return "enrollment_cohorts"
}

func (StudentEnrollment) TableName() string {
	return "student_enrollments"
}

func (CohortTeacher) TableName() string {
	return "cohort_teachers"
}
