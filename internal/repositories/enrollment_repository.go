package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
)

type CohortRepository interface {
	Create(ctx context.Context, tx *gorm.DB, cohort *models.EnrollmentCohort) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.EnrollmentCohort, error)
	ListByLab(ctx context.Context, tx *gorm.DB, labID uint) ([]*models.EnrollmentCohort, error)
	Update(ctx context.Context, tx *gorm.DB, cohort *models.EnrollmentCohort) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Teacher assignment
	AssignTeacher(ctx context.Context, tx *gorm.DB, assignment *models.CohortTeacher) error
	TeacherAssigned(ctx context.Context, tx *gorm.DB, cohortID, teacherID uint) (bool, error)
	CohortsByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.EnrollmentCohort, error)
}

// StudentFilters narrows student listings within a lab.
type StudentFilters struct {
	Standard *int
	Section  *models.LabSection
	Query    string
}

type EnrollmentRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, enrollments []*models.StudentEnrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentEnrollment, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	ByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.StudentEnrollment, error)
	ByCohort(ctx context.Context, tx *gorm.DB, cohortID uint) ([]*models.StudentEnrollment, error)

	// Scope checks
	EnrolledStudentIDs(ctx context.Context, tx *gorm.DB, cohortID uint, studentIDs []uint) ([]uint, error)
	IsEnrolledInCohort(ctx context.Context, tx *gorm.DB, studentID, cohortID uint) (bool, error)
	LabIDsForStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]uint, error)

	// Distinct students of a lab across all its cohorts
	StudentsByLab(ctx context.Context, tx *gorm.DB, labID uint, filters StudentFilters) ([]*models.User, error)
}
