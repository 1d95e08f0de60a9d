package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
)

// UserFilters defines filters for user queries.
type UserFilters struct {
	Query    string // Matches name, last name or mobile number
	Role     *models.UserRole
	SchoolID *uint // Via lab membership
	LabID    *uint
	Limit    int
	Offset   int
}

type UserRepository interface {
	// Basic CRUD
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	CreateBatch(ctx context.Context, tx *gorm.DB, users []*models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByMobile(ctx context.Context, tx *gorm.DB, mobile string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	UpdatePassword(ctx context.Context, tx *gorm.DB, id uint, passwordHash string) error

	// List and search
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
	Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*models.User, error)

	// Validation and checks
	ExistingMobiles(ctx context.Context, tx *gorm.DB, mobiles []string) ([]string, error)
	ExistingStudentIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]uint, error)
	CountByRole(ctx context.Context, tx *gorm.DB, roles ...models.UserRole) (int64, error)

	// Profile management
	SaveTeacherProfile(ctx context.Context, tx *gorm.DB, profile *models.TeacherProfile) error
	SaveStudentProfile(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error
	ReplaceSkills(ctx context.Context, tx *gorm.DB, userID uint, skills []string) error
}
