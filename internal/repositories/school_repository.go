package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
)

// SchoolFilters defines filters for school queries.
type SchoolFilters struct {
	Query  string
	City   string
	Limit  int
	Offset int
}

type SchoolRepository interface {
	Create(ctx context.Context, tx *gorm.DB, school *models.School) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.School, error)
	List(ctx context.Context, tx *gorm.DB, filters SchoolFilters) ([]*models.School, int64, error)
	Update(ctx context.Context, tx *gorm.DB, school *models.School) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

// LabFilters defines filters for lab queries.
type LabFilters struct {
	SchoolID *uint
	Query    string
	Limit    int
	Offset   int
}

type LabRepository interface {
	Create(ctx context.Context, tx *gorm.DB, lab *models.Lab) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Lab, error)
	List(ctx context.Context, tx *gorm.DB, filters LabFilters) ([]*models.Lab, int64, error)
	Update(ctx context.Context, tx *gorm.DB, lab *models.Lab) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)

	// Staff assigned to the lab via teacher profile
	Teachers(ctx context.Context, tx *gorm.DB, labID uint) ([]*models.User, error)
}
