package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
)

// ProjectWithStars pairs a project with its aggregated star count and the
// author's display name.
type ProjectWithStars struct {
	Project     *models.Project
	StarCount   int64
	StudentName string
}

type ProjectRepository interface {
	Create(ctx context.Context, tx *gorm.DB, project *models.Project) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Project, error)
	Update(ctx context.Context, tx *gorm.DB, project *models.Project) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	ByLab(ctx context.Context, tx *gorm.DB, labID uint) ([]*ProjectWithStars, error)
	ByCohort(ctx context.Context, tx *gorm.DB, cohortID uint) ([]*ProjectWithStars, error)
	ByStudent(ctx context.Context, tx *gorm.DB, studentID uint, limit int) ([]*ProjectWithStars, error)

	// Stars
	FindStar(ctx context.Context, tx *gorm.DB, projectID, userID uint) (*models.ProjectStar, error)
	AddStar(ctx context.Context, tx *gorm.DB, star *models.ProjectStar) error
	RemoveStar(ctx context.Context, tx *gorm.DB, projectID, userID uint) error
	StarCount(ctx context.Context, tx *gorm.DB, projectID uint) (int64, error)
}

type MarkRepository interface {
	Create(ctx context.Context, tx *gorm.DB, mark *models.Mark) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Mark, error)
	Update(ctx context.Context, tx *gorm.DB, mark *models.Mark) error

	ByEnrollment(ctx context.Context, tx *gorm.DB, enrollmentID uint) ([]*models.Mark, error)
	RecentByStudent(ctx context.Context, tx *gorm.DB, studentID uint, limit int) ([]*models.Mark, error)
}

// ===== DASHBOARD AGGREGATES =====

// BucketCount is one named bucket of a distribution.
type BucketCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// TrendPoint is one month of the submission trend, keyed "YYYY-MM".
type TrendPoint struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// LabKPIs are the headline numbers of a lab dashboard.
type LabKPIs struct {
	Students int64 `json:"students"`
	Teachers int64 `json:"teachers"`
	Projects int64 `json:"projects"`
	Stars    int64 `json:"stars"`
}

// StudentActivity aggregates one student's projects and received stars,
// optionally restricted to a time window.
type StudentActivity struct {
	StudentID uint   `json:"student_id"`
	Name      string `json:"name"`
	LastName  string `json:"last_name"`
	Projects  int64  `json:"projects"`
	Stars     int64  `json:"stars"`
}

// ProjectStarRow is a project row for rankings and recency lists.
type ProjectStarRow struct {
	ProjectID   uint      `json:"project_id"`
	Title       string    `json:"title"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	Stars       int64     `json:"stars"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdminCounts are the platform-wide headline numbers.
type AdminCounts struct {
	Schools  int64 `json:"schools"`
	Labs     int64 `json:"labs"`
	Teachers int64 `json:"teachers"`
	Students int64 `json:"students"`
}

type DashboardRepository interface {
	// Lab dashboard
	LabKPIs(ctx context.Context, labID uint) (*LabKPIs, error)
	SectionCounts(ctx context.Context, labID uint) ([]BucketCount, error)
	GrokSpecializationCounts(ctx context.Context, labID uint) ([]BucketCount, error)
	PerformanceCounts(ctx context.Context, labID uint) ([]BucketCount, error)
	MonthlyProjectTrend(ctx context.Context, labID uint, since time.Time) ([]TrendPoint, error)

	// Rankings. A nil labID means platform-wide; nil window bounds mean
	// all time.
	StudentActivity(ctx context.Context, labID *uint, from, to *time.Time) ([]StudentActivity, error)
	TopProjects(ctx context.Context, labID *uint, from, to *time.Time, limit int) ([]ProjectStarRow, error)
	RecentProjects(ctx context.Context, labID *uint, limit int) ([]ProjectStarRow, error)

	// Admin dashboard. AdminCounts fills the school and lab tallies; the
	// user tallies come from UserRepository.CountByRole.
	AdminCounts(ctx context.Context) (*AdminCounts, error)
	LabsPerSchool(ctx context.Context) ([]BucketCount, error)
}
