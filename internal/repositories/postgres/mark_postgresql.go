package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

type markRepository struct {
	db *gorm.DB
}

func NewMarkPostgreSQL(db *gorm.DB) repositories.MarkRepository {
	return &markRepository{db: db}
}

func (r *markRepository) Create(ctx context.Context, tx *gorm.DB, mark *models.Mark) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(mark).Error; err != nil {
		return wrapDBError(err, "create mark")
	}
	return nil
}

func (r *markRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Mark, error) {
	db := getDB(r.db, tx)
	var mark models.Mark

	if err := db.WithContext(ctx).
		Preload("Enrollment").
		Preload("Enrollment.Cohort").
		First(&mark, id).Error; err != nil {
		return nil, wrapDBError(err, "get mark by id")
	}

	return &mark, nil
}

func (r *markRepository) Update(ctx context.Context, tx *gorm.DB, mark *models.Mark) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(mark).Error; err != nil {
		return wrapDBError(err, "update mark")
	}
	return nil
}

func (r *markRepository) ByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) ([]*models.Mark, error) {
	db := getDB(r.db, tx)
	var marks []*models.Mark

	if err := db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Order("date_recorded DESC, id DESC").
		Find(&marks).Error; err != nil {
		return nil, wrapDBError(err, "list marks by enrollment")
	}

	return marks, nil
}

func (r *markRepository) RecentByStudent(ctx context.Context, tx *gorm.DB, studentID uint, limit int) ([]*models.Mark, error) {
	db := getDB(r.db, tx)
	var marks []*models.Mark

	query := db.WithContext(ctx).
		Joins("JOIN student_enrollments se ON se.id = marks.enrollment_id").
		Where("se.student_id = ?", studentID).
		Order("marks.date_recorded DESC, marks.id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&marks).Error; err != nil {
		return nil, wrapDBError(err, "list marks by student")
	}

	return marks, nil
}
