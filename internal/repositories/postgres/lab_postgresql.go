package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

type labRepository struct {
	db *gorm.DB
}

func NewLabPostgreSQL(db *gorm.DB) repositories.LabRepository {
	return &labRepository{db: db}
}

func (r *labRepository) Create(ctx context.Context, tx *gorm.DB, lab *models.Lab) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(lab).Error; err != nil {
		return wrapDBError(err, "create lab")
	}
	return nil
}

func (r *labRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Lab, error) {
	db := getDB(r.db, tx)
	var lab models.Lab

	if err := db.WithContext(ctx).
		Preload("School").
		First(&lab, id).Error; err != nil {
		return nil, wrapDBError(err, "get lab by id")
	}

	return &lab, nil
}

func (r *labRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.LabFilters) ([]*models.Lab, int64, error) {
	db := getDB(r.db, tx)
	var labs []*models.Lab
	var total int64

	query := db.WithContext(ctx).Model(&models.Lab{})

	if filters.SchoolID != nil {
		query = query.Where("school_id = ?", *filters.SchoolID)
	}
	if filters.Query != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Query+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "count labs")
	}

	query = applyPagination(query, filters.Limit, filters.Offset).Order("name ASC")

	if err := query.Preload("School").Find(&labs).Error; err != nil {
		return nil, 0, wrapDBError(err, "list labs")
	}

	return labs, total, nil
}

func (r *labRepository) Update(ctx context.Context, tx *gorm.DB, lab *models.Lab) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(lab).Error; err != nil {
		return wrapDBError(err, "update lab")
	}
	return nil
}

func (r *labRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.Lab{}, id)
	if result.Error != nil {
		return wrapDBError(result.Error, "delete lab")
	}
	if result.RowsAffected == 0 {
		return wrapDBError(gorm.ErrRecordNotFound, "delete lab")
	}
	return nil
}

func (r *labRepository) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.Lab{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "check lab exists")
	}

	return count > 0, nil
}

func (r *labRepository) Teachers(ctx context.Context, tx *gorm.DB, labID uint) ([]*models.User, error) {
	db := getDB(r.db, tx)
	var teachers []*models.User

	if err := db.WithContext(ctx).
		Joins("JOIN teacher_profiles tp ON tp.user_id = users.id").
		Where("tp.lab_id = ?", labID).
		Where("users.role IN ?", []models.UserRole{models.RoleLabHead, models.RoleTeacher}).
		Preload("TeacherProfile").
		Preload("Skills").
		Order("users.id ASC").
		Find(&teachers).Error; err != nil {
		return nil, wrapDBError(err, "list lab teachers")
	}

	return teachers, nil
}
