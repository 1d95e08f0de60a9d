package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

type projectRepository struct {
	db *gorm.DB
}

func NewProjectPostgreSQL(db *gorm.DB) repositories.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, tx *gorm.DB, project *models.Project) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(project).Error; err != nil {
		return wrapDBError(err, "create project")
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Project, error) {
	db := getDB(r.db, tx)
	var project models.Project

	if err := db.WithContext(ctx).
		Preload("Student").
		Preload("Cohort").
		First(&project, id).Error; err != nil {
		return nil, wrapDBError(err, "get project by id")
	}

	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, tx *gorm.DB, project *models.Project) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Save(project).Error; err != nil {
		return wrapDBError(err, "update project")
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := getDB(r.db, tx)

	if err := db.WithContext(ctx).
		Where("project_id = ?", id).
		Delete(&models.ProjectStar{}).Error; err != nil {
		return wrapDBError(err, "delete project stars")
	}

	result := db.WithContext(ctx).Delete(&models.Project{}, id)
	if result.Error != nil {
		return wrapDBError(result.Error, "delete project")
	}
	if result.RowsAffected == 0 {
		return wrapDBError(gorm.ErrRecordNotFound, "delete project")
	}
	return nil
}

// ===== QUERY OPERATIONS =====

func (r *projectRepository) ByLab(ctx context.Context, tx *gorm.DB, labID uint) ([]*repositories.ProjectWithStars, error) {
	db := getDB(r.db, tx)
	var projects []*models.Project

	if err := db.WithContext(ctx).
		Joins("JOIN enrollment_cohorts ec ON ec.id = projects.cohort_id").
		Where("ec.lab_id = ?", labID).
		Preload("Student").
		Preload("Stars").
		Order("projects.created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, wrapDBError(err, "list projects by lab")
	}

	return withStars(projects), nil
}

func (r *projectRepository) ByCohort(ctx context.Context, tx *gorm.DB, cohortID uint) ([]*repositories.ProjectWithStars, error) {
	db := getDB(r.db, tx)
	var projects []*models.Project

	if err := db.WithContext(ctx).
		Where("cohort_id = ?", cohortID).
		Preload("Student").
		Preload("Stars").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, wrapDBError(err, "list projects by cohort")
	}

	return withStars(projects), nil
}

func (r *projectRepository) ByStudent(ctx context.Context, tx *gorm.DB, studentID uint, limit int) ([]*repositories.ProjectWithStars, error) {
	db := getDB(r.db, tx)
	var projects []*models.Project

	query := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Student").
		Preload("Stars").
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&projects).Error; err != nil {
		return nil, wrapDBError(err, "list projects by student")
	}

	return withStars(projects), nil
}

func withStars(projects []*models.Project) []*repositories.ProjectWithStars {
	out := make([]*repositories.ProjectWithStars, 0, len(projects))
	for _, p := range projects {
		row := &repositories.ProjectWithStars{
			Project:   p,
			StarCount: int64(len(p.Stars)),
		}
		if p.Student != nil {
			row.StudentName = p.Student.FullName()
		}
		out = append(out, row)
	}
	return out
}

// ===== STARS =====

func (r *projectRepository) FindStar(ctx context.Context, tx *gorm.DB, projectID, userID uint) (*models.ProjectStar, error) {
	db := getDB(r.db, tx)
	var star models.ProjectStar

	if err := db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&star).Error; err != nil {
		return nil, wrapDBError(err, "find project star")
	}

	return &star, nil
}

func (r *projectRepository) AddStar(ctx context.Context, tx *gorm.DB, star *models.ProjectStar) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).Create(star).Error; err != nil {
		return wrapDBError(err, "add project star")
	}
	return nil
}

func (r *projectRepository) RemoveStar(ctx context.Context, tx *gorm.DB, projectID, userID uint) error {
	db := getDB(r.db, tx)
	if err := db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectStar{}).Error; err != nil {
		return wrapDBError(err, "remove project star")
	}
	return nil
}

func (r *projectRepository) StarCount(ctx context.Context, tx *gorm.DB, projectID uint) (int64, error) {
	db := getDB(r.db, tx)
	var count int64

	if err := db.WithContext(ctx).
		Model(&models.ProjectStar{}).
		Where("project_id = ?", projectID).
		Count(&count).Error; err != nil {
		return 0, wrapDBError(err, "count project stars")
	}

	return count, nil
}
