package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &dashboardRepository{db: db}
}

// ===== LAB DASHBOARD =====

func (r *dashboardRepository) LabKPIs(ctx context.Context, labID uint) (*repositories.LabKPIs, error) {
	kpis := &repositories.LabKPIs{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.StudentEnrollment{}).
		Distinct("student_enrollments.student_id").
		Joins("JOIN enrollment_cohorts ec ON ec.id = student_enrollments.cohort_id").
		Where("ec.lab_id = ?", labID).
		Count(&kpis.Students).Error; err != nil {
		return nil, wrapDBError(err, "count lab students")
	}

	if err := db.Model(&models.TeacherProfile{}).
		Where("lab_id = ?", labID).
		Count(&kpis.Teachers).Error; err != nil {
		return nil, wrapDBError(err, "count lab teachers")
	}

	if err := db.Model(&models.Project{}).
		Joins("JOIN enrollment_cohorts ec ON ec.id = projects.cohort_id").
		Where("ec.lab_id = ?", labID).
		Count(&kpis.Projects).Error; err != nil {
		return nil, wrapDBError(err, "count lab projects")
	}

	if err := db.Model(&models.ProjectStar{}).
		Joins("JOIN projects p ON p.id = project_stars.project_id").
		Joins("JOIN enrollment_cohorts ec ON ec.id = p.cohort_id").
		Where("ec.lab_id = ?", labID).
		Count(&kpis.Stars).Error; err != nil {
		return nil, wrapDBError(err, "count lab stars")
	}

	return kpis, nil
}

func (r *dashboardRepository) SectionCounts(ctx context.Context, labID uint) ([]repositories.BucketCount, error) {
	var buckets []repositories.BucketCount

	if err := r.db.WithContext(ctx).
		Model(&models.StudentEnrollment{}).
		Select("ec.section AS key, COUNT(DISTINCT student_enrollments.student_id) AS count").
		Joins("JOIN enrollment_cohorts ec ON ec.id = student_enrollments.cohort_id").
		Where("ec.lab_id = ?", labID).
		Group("ec.section").
		Order("ec.section ASC").
		Scan(&buckets).Error; err != nil {
		return nil, wrapDBError(err, "count students by section")
	}

	return buckets, nil
}

func (r *dashboardRepository) GrokSpecializationCounts(ctx context.Context, labID uint) ([]repositories.BucketCount, error) {
	var buckets []repositories.BucketCount

	if err := r.db.WithContext(ctx).
		Model(&models.StudentEnrollment{}).
		Select("ec.grok_specialization AS key, COUNT(DISTINCT student_enrollments.student_id) AS count").
		Joins("JOIN enrollment_cohorts ec ON ec.id = student_enrollments.cohort_id").
		Where("ec.lab_id = ? AND ec.section = ? AND ec.grok_specialization IS NOT NULL", labID, models.SectionGrok).
		Group("ec.grok_specialization").
		Order("ec.grok_specialization ASC").
		Scan(&buckets).Error; err != nil {
		return nil, wrapDBError(err, "count students by grok specialization")
	}

	return buckets, nil
}

func (r *dashboardRepository) PerformanceCounts(ctx context.Context, labID uint) ([]repositories.BucketCount, error) {
	var buckets []repositories.BucketCount

	if err := r.db.WithContext(ctx).
		Model(&models.StudentProfile{}).
		Select("student_profiles.performance_status AS key, COUNT(DISTINCT student_profiles.user_id) AS count").
		Joins("JOIN student_enrollments se ON se.student_id = student_profiles.user_id").
		Joins("JOIN enrollment_cohorts ec ON ec.id = se.cohort_id").
		Where("ec.lab_id = ? AND student_profiles.performance_status IS NOT NULL", labID).
		Group("student_profiles.performance_status").
		Order("student_profiles.performance_status ASC").
		Scan(&buckets).Error; err != nil {
		return nil, wrapDBError(err, "count students by performance")
	}

	return buckets, nil
}

func (r *dashboardRepository) MonthlyProjectTrend(ctx context.Context, labID uint, since time.Time) ([]repositories.TrendPoint, error) {
	var points []repositories.TrendPoint

	if err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Select("to_char(projects.created_at, 'YYYY-MM') AS month, COUNT(*) AS count").
		Joins("JOIN enrollment_cohorts ec ON ec.id = projects.cohort_id").
		Where("ec.lab_id = ? AND projects.created_at >= ?", labID, since).
		Group("month").
		Order("month ASC").
		Scan(&points).Error; err != nil {
		return nil, wrapDBError(err, "project submission trend")
	}

	return points, nil
}

// ===== RANKINGS =====

// StudentActivity counts projects a student submitted and stars their
// projects received, each restricted to the window when bounds are given.
// The two counts are independent: the window filters projects by submission
// time and stars by star time, so a student whose only activity in the
// window is stars on an older project still appears. Students with neither
// projects nor stars in the window do not.
func (r *dashboardRepository) StudentActivity(ctx context.Context, labID *uint, from, to *time.Time) ([]repositories.StudentActivity, error) {
	var rows []repositories.StudentActivity

	projectQ := r.db.Model(&models.Project{}).
		Select("projects.student_id AS student_id, COUNT(*) AS projects")
	starQ := r.db.Model(&models.ProjectStar{}).
		Select("p.student_id AS student_id, COUNT(*) AS stars").
		Joins("JOIN projects p ON p.id = project_stars.project_id")

	if labID != nil {
		projectQ = projectQ.
			Joins("JOIN enrollment_cohorts ec ON ec.id = projects.cohort_id").
			Where("ec.lab_id = ?", *labID)
		starQ = starQ.
			Joins("JOIN enrollment_cohorts ec ON ec.id = p.cohort_id").
			Where("ec.lab_id = ?", *labID)
	}
	if from != nil {
		projectQ = projectQ.Where("projects.created_at >= ?", *from)
		starQ = starQ.Where("project_stars.created_at >= ?", *from)
	}
	if to != nil {
		projectQ = projectQ.Where("projects.created_at < ?", *to)
		starQ = starQ.Where("project_stars.created_at < ?", *to)
	}

	projectQ = projectQ.Group("projects.student_id")
	starQ = starQ.Group("p.student_id")

	if err := r.db.WithContext(ctx).
		Table("users u").
		Select("u.id AS student_id, u.name AS name, u.last_name AS last_name, COALESCE(pr.projects, 0) AS projects, COALESCE(st.stars, 0) AS stars").
		Joins("LEFT JOIN (?) pr ON pr.student_id = u.id", projectQ).
		Joins("LEFT JOIN (?) st ON st.student_id = u.id", starQ).
		Where("u.role = ?", models.RoleStudent).
		Where("pr.projects > 0 OR st.stars > 0").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "aggregate student activity")
	}

	return rows, nil
}

// TopProjects ranks projects by stars. Within a lab ties break on the lower
// project id; platform-wide ties break on the newer submission.
func (r *dashboardRepository) TopProjects(ctx context.Context, labID *uint, from, to *time.Time, limit int) ([]repositories.ProjectStarRow, error) {
	var rows []repositories.ProjectStarRow

	starJoin := "LEFT JOIN project_stars ps ON ps.project_id = p.id"
	starArgs := []interface{}{}
	if from != nil {
		starJoin += " AND ps.created_at >= ?"
		starArgs = append(starArgs, *from)
	}
	if to != nil {
		starJoin += " AND ps.created_at < ?"
		starArgs = append(starArgs, *to)
	}

	query := r.db.WithContext(ctx).
		Table("projects p").
		Select("p.id AS project_id, p.title AS title, p.student_id AS student_id, u.name || ' ' || u.last_name AS student_name, COUNT(ps.id) AS stars, p.created_at AS created_at").
		Joins("JOIN users u ON u.id = p.student_id").
		Joins(starJoin, starArgs...)

	order := "stars DESC, p.created_at DESC, p.id ASC"
	if labID != nil {
		query = query.
			Joins("JOIN enrollment_cohorts ec ON ec.id = p.cohort_id").
			Where("ec.lab_id = ?", *labID)
		order = "stars DESC, p.id ASC"
	}

	if err := query.
		Group("p.id, p.title, p.student_id, u.name, u.last_name, p.created_at").
		Order(order).
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "rank top projects")
	}

	return rows, nil
}

func (r *dashboardRepository) RecentProjects(ctx context.Context, labID *uint, limit int) ([]repositories.ProjectStarRow, error) {
	var rows []repositories.ProjectStarRow

	query := r.db.WithContext(ctx).
		Table("projects p").
		Select("p.id AS project_id, p.title AS title, p.student_id AS student_id, u.name || ' ' || u.last_name AS student_name, COUNT(ps.id) AS stars, p.created_at AS created_at").
		Joins("JOIN users u ON u.id = p.student_id").
		Joins("LEFT JOIN project_stars ps ON ps.project_id = p.id")

	if labID != nil {
		query = query.
			Joins("JOIN enrollment_cohorts ec ON ec.id = p.cohort_id").
			Where("ec.lab_id = ?", *labID)
	}

	if err := query.
		Group("p.id, p.title, p.student_id, u.name, u.last_name, p.created_at").
		Order("p.created_at DESC, p.id DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "list recent projects")
	}

	return rows, nil
}

// ===== ADMIN DASHBOARD =====

func (r *dashboardRepository) AdminCounts(ctx context.Context) (*repositories.AdminCounts, error) {
	counts := &repositories.AdminCounts{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.School{}).Count(&counts.Schools).Error; err != nil {
		return nil, wrapDBError(err, "count schools")
	}
	if err := db.Model(&models.Lab{}).Count(&counts.Labs).Error; err != nil {
		return nil, wrapDBError(err, "count labs")
	}

	return counts, nil
}

func (r *dashboardRepository) LabsPerSchool(ctx context.Context) ([]repositories.BucketCount, error) {
	var buckets []repositories.BucketCount

	if err := r.db.WithContext(ctx).
		Table("schools s").
		Select("s.name AS key, COUNT(l.id) AS count").
		Joins("LEFT JOIN labs l ON l.school_id = s.id").
		Group("s.id, s.name").
		Order("s.name ASC").
		Scan(&buckets).Error; err != nil {
		return nil, wrapDBError(err, "count labs per school")
	}

	return buckets, nil
}
