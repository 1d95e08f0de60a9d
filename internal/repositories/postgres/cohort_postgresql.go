package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

type cohortRepository struct {
	db *gorm.DB
}

func NewCohortPostgreSQL(db *gorm.DB) repositories.CohortRepository {
	return &cohortRepository{db: db}
}

func (r *cohortRepository) Create(ctx context.Context, tx *gorm.DB, cohort *models.EnrollmentCohort) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(cohort).Error; err != nil {
		return wrapDBError(err, "create cohort")
	}
	return nil
}

func (r *cohortRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.EnrollmentCohort, error) {
	db := getDB(r.db, tx)
	var cohort models.EnrollmentCohort

	if err := db.WithContext(ctx).
		Preload("Lab").
		First(&cohort, id).Error; err != nil {
		return nil, wrapDBError(err, "get cohort by id")
	}

	return &cohort, nil
}

func (r *cohortRepository) ListByLab(ctx context.Context, tx *gorm.DB, labID uint) ([]*models.EnrollmentCohort, error) {
	db := getDB(r.db, tx)
	var cohorts []*models.EnrollmentCohort

	if err := db.WithContext(ctx).
		Where("lab_id = ?", labID).
		Order("academic_year DESC, standard ASC, id ASC").
		Find(&cohorts).Error; err != nil {
		return nil, wrapDBError(err, "list cohorts by lab")
	}

	return cohorts, nil
}

func (r *cohortRepository) Update(ctx context.Context, tx *gorm.DB, cohort *models.EnrollmentCohort) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(cohort).Error; err != nil {
		return wrapDBError(err, "update cohort")
	}
	return nil
}

func (r *cohortRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.EnrollmentCohort{}, id)
	if result.Error != nil {
		return wrapDBError(result.Error, "delete cohort")
	}
	if result.RowsAffected == 0 {
		return wrapDBError(gorm.ErrRecordNotFound, "delete cohort")
	}
	return nil
}

// ===== TEACHER ASSIGNMENT =====

func (r *cohortRepository) AssignTeacher(ctx context.Context, tx *gorm.DB, assignment *models.CohortTeacher) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(assignment).Error; err != nil {
		return wrapDBError(err, "assign teacher to cohort")
	}
	return nil
}

func (r *cohortRepository) TeacherAssigned(ctx context.Context, tx *gorm.DB, cohortID, teacherID uint) (bool, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.CohortTeacher{}).
		Where("cohort_id = ? AND teacher_id = ?", cohortID, teacherID).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "check teacher assignment")
	}

	return count > 0, nil
}

func (r *cohortRepository) CohortsByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.EnrollmentCohort, error) {
	db := getDB(r.db, tx)
	var cohorts []*models.EnrollmentCohort

	if err := db.WithContext(ctx).
		Joins("JOIN cohort_teachers ct ON ct.cohort_id = enrollment_cohorts.id").
		Where("ct.teacher_id = ?", teacherID).
		Preload("Lab").
		Order("enrollment_cohorts.academic_year DESC, enrollment_cohorts.id ASC").
		Find(&cohorts).Error; err != nil {
		return nil, wrapDBError(err, "list cohorts by teacher")
	}

	return cohorts, nil
}
