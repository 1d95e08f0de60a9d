package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/steamlab-platform/lab-service/internal/authz"
	"github.com/steamlab-platform/lab-service/internal/cache"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

// Score weights: a submission is worth more than a received star.
const (
	projectScoreWeight = 10
	starScoreWeight    = 2
)

const trendMonths = 12

// ===== RESPONSE TYPES =====

type RankedStudent struct {
	StudentID uint   `json:"student_id"`
	Name      string `json:"name"`
	LastName  string `json:"last_name"`
	Projects  int64  `json:"projects"`
	Stars     int64  `json:"stars"`
	Score     int64  `json:"score"`
}

type LabDashboard struct {
	KPIs               *repositories.LabKPIs          `json:"kpis"`
	SectionCounts      []repositories.BucketCount     `json:"section_counts"`
	GrokSpecialization []repositories.BucketCount     `json:"grok_specialization_counts"`
	PerformanceCounts  []repositories.BucketCount     `json:"performance_counts"`
	MonthlyTrend       []repositories.TrendPoint      `json:"monthly_trend"`
	TopStudents        []RankedStudent                `json:"top_students"`
	TopProjects        []repositories.ProjectStarRow  `json:"top_projects"`
}

type StudentDashboard struct {
	TotalEnrollments int                `json:"total_enrollments"`
	TotalProjects    int64              `json:"total_projects"`
	TotalStars       int64              `json:"total_stars"`
	Score            int64              `json:"score"`
	RecentProjects   []*ProjectResponse `json:"recent_projects"`
	RecentMarks      []*models.Mark     `json:"recent_marks"`
}

type ProjectDashboard struct {
	TopProjects    []repositories.ProjectStarRow `json:"top_projects"`
	RecentProjects []repositories.ProjectStarRow `json:"recent_projects"`
}

type ActivityItem struct {
	Type      string    `json:"type"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

type AdminDashboard struct {
	Counts           *repositories.AdminCounts  `json:"counts"`
	LabsPerSchool    []repositories.BucketCount `json:"labs_per_school"`
	RecentActivities []ActivityItem             `json:"recent_activities"`
}

// ===== SERVICE INTERFACE =====

type DashboardService interface {
	GetLabDashboard(ctx context.Context, actorID, labID uint) (*LabDashboard, error)
	GetStudentDashboard(ctx context.Context, studentID uint) (*StudentDashboard, error)
	GetProjectDashboard(ctx context.Context) (*ProjectDashboard, error)
	GetAdminDashboard(ctx context.Context) (*AdminDashboard, error)
}

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
	cache  *cache.DashboardCache
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger, dashCache *cache.DashboardCache) DashboardService {
	return &dashboardService{repo: repo, logger: logger, cache: dashCache}
}

// ===== LAB DASHBOARD =====

func (s *dashboardService) GetLabDashboard(ctx context.Context, actorID, labID uint) (*LabDashboard, error) {
	exists, err := s.repo.Lab().Exists(ctx, nil, labID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("lab %d: %w", labID, ErrNotFound)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessLab(actor, labID) {
		return nil, ErrForbidden
	}

	var cached LabDashboard
	if s.cacheGet(ctx, cache.LabKey(labID), &cached) {
		return &cached, nil
	}

	dash, err := s.buildLabDashboard(ctx, labID)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cache.LabKey(labID), dash)
	return dash, nil
}

func (s *dashboardService) buildLabDashboard(ctx context.Context, labID uint) (*LabDashboard, error) {
	dashboards := s.repo.Dashboard()

	kpis, err := dashboards.LabKPIs(ctx, labID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lab KPIs: %w", err)
	}

	sections, err := dashboards.SectionCounts(ctx, labID)
	if err != nil {
		return nil, err
	}

	grok, err := dashboards.GrokSpecializationCounts(ctx, labID)
	if err != nil {
		return nil, err
	}

	performance, err := dashboards.PerformanceCounts(ctx, labID)
	if err != nil {
		return nil, err
	}

	since := monthStart(time.Now().UTC()).AddDate(0, -(trendMonths - 1), 0)
	trend, err := dashboards.MonthlyProjectTrend(ctx, labID, since)
	if err != nil {
		return nil, err
	}

	activity, err := dashboards.StudentActivity(ctx, &labID, nil, nil)
	if err != nil {
		return nil, err
	}

	topProjects, err := dashboards.TopProjects(ctx, &labID, nil, nil, 5)
	if err != nil {
		return nil, err
	}

	return &LabDashboard{
		KPIs:               kpis,
		SectionCounts:      sections,
		GrokSpecialization: grok,
		PerformanceCounts:  performance,
		MonthlyTrend:       trend,
		TopStudents:        rankStudents(activity, 5),
		TopProjects:        topProjects,
	}, nil
}

// rankStudents scores and orders student activity. Ties on score break on
// stars, then on the lower student id. Students without any activity are
// dropped.
func rankStudents(activity []repositories.StudentActivity, limit int) []RankedStudent {
	ranked := make([]RankedStudent, 0, len(activity))
	for _, a := range activity {
		score := a.Projects*projectScoreWeight + a.Stars*starScoreWeight
		if score == 0 {
			continue
		}
		ranked = append(ranked, RankedStudent{
			StudentID: a.StudentID,
			Name:      a.Name,
			LastName:  a.LastName,
			Projects:  a.Projects,
			Stars:     a.Stars,
			Score:     score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Stars != ranked[j].Stars {
			return ranked[i].Stars > ranked[j].Stars
		}
		return ranked[i].StudentID < ranked[j].StudentID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ===== STUDENT DASHBOARD =====

func (s *dashboardService) GetStudentDashboard(ctx context.Context, studentID uint) (*StudentDashboard, error) {
	enrollments, err := s.repo.Enrollment().ByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}

	allProjects, err := s.repo.Project().ByStudent(ctx, nil, studentID, 0)
	if err != nil {
		return nil, err
	}

	var totalStars int64
	for _, p := range allProjects {
		totalStars += p.StarCount
	}
	totalProjects := int64(len(allProjects))

	recentProjects := allProjects
	if len(recentProjects) > 5 {
		recentProjects = recentProjects[:5]
	}

	recentMarks, err := s.repo.Mark().RecentByStudent(ctx, nil, studentID, 5)
	if err != nil {
		return nil, err
	}

	return &StudentDashboard{
		TotalEnrollments: len(enrollments),
		TotalProjects:    totalProjects,
		TotalStars:       totalStars,
		Score:            totalProjects*projectScoreWeight + totalStars*starScoreWeight,
		RecentProjects:   toProjectResponses(recentProjects),
		RecentMarks:      recentMarks,
	}, nil
}

// ===== PROJECT DASHBOARD =====

func (s *dashboardService) GetProjectDashboard(ctx context.Context) (*ProjectDashboard, error) {
	var cached ProjectDashboard
	if s.cacheGet(ctx, cache.ProjectsKey, &cached) {
		return &cached, nil
	}

	top, err := s.repo.Dashboard().TopProjects(ctx, nil, nil, nil, 10)
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.Dashboard().RecentProjects(ctx, nil, 10)
	if err != nil {
		return nil, err
	}

	dash := &ProjectDashboard{TopProjects: top, RecentProjects: recent}
	s.cacheSet(ctx, cache.ProjectsKey, dash)
	return dash, nil
}

// ===== ADMIN DASHBOARD =====

func (s *dashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	counts, err := s.repo.Dashboard().AdminCounts(ctx)
	if err != nil {
		return nil, err
	}
	if counts.Teachers, err = s.repo.User().CountByRole(ctx, nil, models.RoleLabHead, models.RoleTeacher); err != nil {
		return nil, err
	}
	if counts.Students, err = s.repo.User().CountByRole(ctx, nil, models.RoleStudent); err != nil {
		return nil, err
	}

	labsPerSchool, err := s.repo.Dashboard().LabsPerSchool(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.User().Recent(ctx, nil, 5)
	if err != nil {
		return nil, err
	}

	projects, err := s.repo.Dashboard().RecentProjects(ctx, nil, 5)
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		Counts:           counts,
		LabsPerSchool:    labsPerSchool,
		RecentActivities: mergeActivities(users, projects, 5),
	}, nil
}

// mergeActivities interleaves user registrations and project submissions
// into one feed ordered newest first.
func mergeActivities(users []*models.User, projects []repositories.ProjectStarRow, limit int) []ActivityItem {
	items := make([]ActivityItem, 0, len(users)+len(projects))

	for _, u := range users {
		items = append(items, ActivityItem{
			Type:      "user_registered",
			Label:     fmt.Sprintf("%s joined as %s", u.FullName(), u.Role),
			Timestamp: u.CreatedAt,
		})
	}
	for _, p := range projects {
		items = append(items, ActivityItem{
			Type:      "project_submitted",
			Label:     fmt.Sprintf("%s submitted %q", p.StudentName, p.Title),
			Timestamp: p.CreatedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// ===== CACHE HELPERS =====

func (s *dashboardService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, cache.ErrCacheNotAvailable) {
		s.logger.Warn("dashboard cache read failed", "key", key, "error", err)
	}
	return false
}

func (s *dashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, cache.DashboardTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", "key", key, "error", err)
	}
}
