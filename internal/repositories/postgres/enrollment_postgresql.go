package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) CreateBatch(ctx context.Context, tx *gorm.DB, enrollments []*models.StudentEnrollment) error {
	if len(enrollments) == 0 {
		return nil
	}
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(&enrollments).Error; err != nil {
		return wrapDBError(err, "create enrollments")
	}
	return nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentEnrollment, error) {
	db := getDB(r.db, tx)
	var enrollment models.StudentEnrollment

	if err := db.WithContext(ctx).
		Preload("Cohort").
		Preload("Student").
		First(&enrollment, id).Error; err != nil {
		return nil, wrapDBError(err, "get enrollment by id")
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)

	// Marks hang off the enrollment and go with it.
	if err := db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		Delete(&models.Mark{}).Error; err != nil {
		return wrapDBError(err, "delete enrollment marks")
	}

	result := db.WithContext(ctx).Delete(&models.StudentEnrollment{}, id)
	if result.Error != nil {
		return wrapDBError(result.Error, "delete enrollment")
	}
	if result.RowsAffected == 0 {
		return wrapDBError(gorm.ErrRecordNotFound, "delete enrollment")
	}
	return nil
}

func (r *enrollmentRepository) ByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.StudentEnrollment, error) {
	db := getDB(r.db, tx)
	var enrollments []*models.StudentEnrollment

	if err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Cohort").
		Preload("Cohort.Lab").
		Order("id ASC").
		Find(&enrollments).Error; err != nil {
		return nil, wrapDBError(err, "list enrollments by student")
	}

	return enrollments, nil
}

func (r *enrollmentRepository) ByCohort(ctx context.Context, tx *gorm.DB, cohortID uint) ([]*models.StudentEnrollment, error) {
	db := getDB(r.db, tx)
	var enrollments []*models.StudentEnrollment

	if err := db.WithContext(ctx).
		Where("cohort_id = ?", cohortID).
		Preload("Student").
		Preload("Student.StudentProfile").
		Order("id ASC").
		Find(&enrollments).Error; err != nil {
		return nil, wrapDBError(err, "list enrollments by cohort")
	}

	return enrollments, nil
}

// ===== SCOPE CHECKS =====

func (r *enrollmentRepository) EnrolledStudentIDs(ctx context.Context, tx *gorm.DB, cohortID uint, studentIDs []uint) ([]uint, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}

	db := getDB(r.db, tx)
	var ids []uint

	if err := db.WithContext(ctx).
		Model(&models.StudentEnrollment{}).
		Where("cohort_id = ? AND student_id IN ?", cohortID, studentIDs).
		Pluck("student_id", &ids).Error; err != nil {
		return nil, wrapDBError(err, "check enrolled students")
	}

	return ids, nil
}

func (r *enrollmentRepository) IsEnrolledInCohort(ctx context.Context, tx *gorm.DB, studentID, cohortID uint) (bool, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.StudentEnrollment{}).
		Where("student_id = ? AND cohort_id = ?", studentID, cohortID).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "check cohort enrollment")
	}

	return count > 0, nil
}

func (r *enrollmentRepository) LabIDsForStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]uint, error) {
	db := getDB(r.db, tx)
	var labIDs []uint

	if err := db.WithContext(ctx).
		Model(&models.StudentEnrollment{}).
		Distinct("enrollment_cohorts.lab_id").
		Joins("JOIN enrollment_cohorts ON enrollment_cohorts.id = student_enrollments.cohort_id").
		Where("student_enrollments.student_id = ?", studentID).
		Pluck("enrollment_cohorts.lab_id", &labIDs).Error; err != nil {
		return nil, wrapDBError(err, "list student labs")
	}

	return labIDs, nil
}

func (r *enrollmentRepository) StudentsByLab(ctx context.Context, tx *gorm.DB, labID uint, filters repositories.StudentFilters) ([]*models.User, error) {
	db := getDB(r.db, tx)
	var students []*models.User

	query := db.WithContext(ctx).
		Model(&models.User{}).
		Distinct("users.*").
		Joins("JOIN student_enrollments se ON se.student_id = users.id").
		Joins("JOIN enrollment_cohorts ec ON ec.id = se.cohort_id").
		Where("ec.lab_id = ?", labID)

	if filters.Standard != nil {
		query = query.Where("ec.standard = ?", *filters.Standard)
	}
	if filters.Section != nil {
		query = query.Where("ec.section = ?", *filters.Section)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("users.name ILIKE ? OR users.last_name ILIKE ?", like, like)
	}

	if err := query.
		Preload("StudentProfile").
		Order("users.id ASC").
		Find(&students).Error; err != nil {
		return nil, wrapDBError(err, "list students by lab")
	}

	return students, nil
}
