package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &userRepository{db: db}
}

// ===== BASIC CRUD OPERATIONS =====

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) CreateBatch(ctx context.Context, tx *gorm.DB, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(&users).Error; err != nil {
		return wrapDBError(err, "create users")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := getDB(r.db, tx)
	var user models.User

	if err := db.WithContext(ctx).
		Preload("TeacherProfile").
		Preload("StudentProfile").
		Preload("Skills").
		First(&user, id).Error; err != nil {
		return nil, wrapDBError(err, "get user by id")
	}

	return &user, nil
}

func (r *userRepository) GetByMobile(ctx context.Context, tx *gorm.DB, mobile string) (*models.User, error) {
	db := getDB(r.db, tx)
	var user models.User

	if err := db.WithContext(ctx).
		Preload("TeacherProfile").
		Preload("StudentProfile").
		Where("mobile_number = ?", mobile).
		First(&user).Error; err != nil {
		return nil, wrapDBError(err, "get user by mobile")
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return wrapDBError(err, "update user")
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, tx *gorm.DB, id uint, passwordHash string) error {
	db := getDB(r.db, tx)
	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return wrapDBError(result.Error, "update password")
	}
	if result.RowsAffected == 0 {
		return wrapDBError(gorm.ErrRecordNotFound, "update password")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *userRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	db := getDB(r.db, tx)
	var users []*models.User
	var total int64

	query := db.WithContext(ctx).Model(&models.User{})

	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR last_name ILIKE ? OR mobile_number ILIKE ?", like, like, like)
	}
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.LabID != nil {
		query = query.Where(
			"id IN (SELECT se.student_id FROM student_enrollments se JOIN enrollment_cohorts ec ON ec.id = se.cohort_id WHERE ec.lab_id = ?)",
			*filters.LabID,
		)
	}
	if filters.SchoolID != nil {
		query = query.Where(
			"id IN (SELECT se.student_id FROM student_enrollments se JOIN enrollment_cohorts ec ON ec.id = se.cohort_id JOIN labs l ON l.id = ec.lab_id WHERE l.school_id = ?)",
			*filters.SchoolID,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "count users")
	}

	query = applyPagination(query, filters.Limit, filters.Offset).Order("id ASC")

	if err := query.
		Preload("TeacherProfile").
		Preload("StudentProfile").
		Find(&users).Error; err != nil {
		return nil, 0, wrapDBError(err, "list users")
	}

	return users, total, nil
}

func (r *userRepository) Recent(ctx context.Context, tx *gorm.DB, limit int) ([]*models.User, error) {
	db := getDB(r.db, tx)
	var users []*models.User

	if err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "list recent users")
	}

	return users, nil
}

// ===== VALIDATION AND CHECKS =====

func (r *userRepository) ExistingMobiles(ctx context.Context, tx *gorm.DB, mobiles []string) ([]string, error) {
	if len(mobiles) == 0 {
		return nil, nil
	}

	db := getDB(r.db, tx)
	var existing []string

	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("mobile_number IN ?", mobiles).
		Pluck("mobile_number", &existing).Error; err != nil {
		return nil, wrapDBError(err, "check existing mobiles")
	}

	return existing, nil
}

func (r *userRepository) ExistingStudentIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := getDB(r.db, tx)
	var existing []uint

	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id IN ? AND role = ?", ids, models.RoleStudent).
		Pluck("id", &existing).Error; err != nil {
		return nil, wrapDBError(err, "check existing students")
	}

	return existing, nil
}

func (r *userRepository) CountByRole(ctx context.Context, tx *gorm.DB, roles ...models.UserRole) (int64, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.User{}).
		Where("role IN ?", roles).
		Count(&count).Error; err != nil {
		return 0, wrapDBError(err, "count users by role")
	}

	return count, nil
}

// ===== PROFILE MANAGEMENT =====

func (r *userRepository) SaveTeacherProfile(ctx context.Context, tx *gorm.DB, profile *models.TeacherProfile) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profile).Error; err != nil {
		return wrapDBError(err, "save teacher profile")
	}
	return nil
}

func (r *userRepository) SaveStudentProfile(ctx context.Context, tx *gorm.DB, profile *models.StudentProfile) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profile).Error; err != nil {
		return wrapDBError(err, "save student profile")
	}
	return nil
}

func (r *userRepository) ReplaceSkills(ctx context.Context, tx *gorm.DB, userID uint, skills []string) error {
	db := getDB(r.db, tx)

	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.TeacherSkill{}).Error; err != nil {
		return wrapDBError(err, "delete teacher skills")
	}

	if len(skills) == 0 {
		return nil
	}

	records := make([]models.TeacherSkill, 0, len(skills))
	for _, skill := range skills {
		records = append(records, models.TeacherSkill{UserID: userID, SkillName: skill})
	}

	if err := db.WithContext(ctx).Create(&records).Error; err != nil {
		return wrapDBError(err, "create teacher skills")
	}

	return nil
}
