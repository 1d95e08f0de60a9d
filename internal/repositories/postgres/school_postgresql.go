package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

type schoolRepository struct {
	db *gorm.DB
}

func NewSchoolPostgreSQL(db *gorm.DB) repositories.SchoolRepository {
	return &schoolRepository{db: db}
}

func (r *schoolRepository) Create(ctx context.Context, tx *gorm.DB, school *models.School) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(school).Error; err != nil {
		return wrapDBError(err, "create school")
	}
	return nil
}

func (r *schoolRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.School, error) {
	db := getDB(r.db, tx)
	var school models.School

	if err := db.WithContext(ctx).
		Preload("Labs").
		First(&school, id).Error; err != nil {
		return nil, wrapDBError(err, "get school by id")
	}

	return &school, nil
}

func (r *schoolRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.SchoolFilters) ([]*models.School, int64, error) {
	db := getDB(r.db, tx)
	var schools []*models.School
	var total int64

	query := db.WithContext(ctx).Model(&models.School{})

	if filters.Query != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Query+"%")
	}
	if filters.City != "" {
		query = query.Where("city ILIKE ?", filters.City)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "count schools")
	}

	query = applyPagination(query, filters.Limit, filters.Offset).Order("name ASC")

	if err := query.Find(&schools).Error; err != nil {
		return nil, 0, wrapDBError(err, "list schools")
	}

	return schools, total, nil
}

func (r *schoolRepository) Update(ctx context.Context, tx *gorm.DB, school *models.School) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(school).Error; err != nil {
		return wrapDBError(err, "update school")
	}
	return nil
}

func (r *schoolRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).Delete(&models.School{}, id)
	if result.Error != nil {
		return wrapDBError(result.Error, "delete school")
	}
	if result.RowsAffected == 0 {
		return wrapDBError(gorm.ErrRecordNotFound, "delete school")
	}
	return nil
}

func (r *schoolRepository) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.School{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, wrapDBError(err, "check school exists")
	}

	return count > 0, nil
}
