package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/steamlab-platform/lab-service/internal/authz"
	"github.com/steamlab-platform/lab-service/internal/cache"
	"github.com/steamlab-platform/lab-service/internal/events"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/validator"
)

// ===== REQUEST/RESPONSE TYPES =====

type ProjectCreateRequest struct {
	CohortID    uint     `json:"cohort_id" validate:"required"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description *string  `json:"description"`
	VideoLinks  []string `json:"video_links" validate:"omitempty,dive,url"`
	PhotoURLs   []string `json:"photo_urls" validate:"omitempty,dive,url"`
}

type ProjectUpdateRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=200"`
	Description *string  `json:"description"`
	VideoLinks  []string `json:"video_links" validate:"omitempty,dive,url"`
	PhotoURLs   []string `json:"photo_urls" validate:"omitempty,dive,url"`
}

type ProjectResponse struct {
	Project     *models.Project `json:"project"`
	Stars       int64           `json:"stars"`
	StudentName string          `json:"student_name,omitempty"`
}

type StarResponse struct {
	Starred bool  `json:"starred"`
	Stars   int64 `json:"stars"`
}

// ===== SERVICE INTERFACE =====

type ProjectService interface {
	CreateProject(ctx context.Context, actorID uint, req *ProjectCreateRequest) (*models.Project, error)
	GetProject(ctx context.Context, id uint) (*ProjectResponse, error)
	ListByLab(ctx context.Context, actorID, labID uint) ([]*ProjectResponse, error)
	ListByCohort(ctx context.Context, actorID, cohortID uint) ([]*ProjectResponse, error)
	ListByStudent(ctx context.Context, studentID uint) ([]*ProjectResponse, error)
	UpdateProject(ctx context.Context, actorID, projectID uint, req *ProjectUpdateRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, actorID, projectID uint) error
	ToggleStar(ctx context.Context, actorID, projectID uint) (*StarResponse, error)
}

type projectService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.DashboardCache
	emitter   eventEmitter
}

func NewProjectService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, dashCache *cache.DashboardCache, publisher events.EventPublisher, topic string) ProjectService {
	return &projectService{
		repo:      repo,
		logger:    logger,
		validator: v,
		cache:     dashCache,
		emitter:   newEventEmitter(publisher, topic, logger),
	}
}

// ===== PROJECTS =====

func (s *projectService) CreateProject(ctx context.Context, actorID uint, req *ProjectCreateRequest) (*models.Project, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	cohort, err := s.repo.Cohort().GetByID(ctx, nil, req.CohortID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	enrolled, err := s.repo.Enrollment().IsEnrolledInCohort(ctx, nil, actorID, req.CohortID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrForbidden
	}

	videoLinks, err := toJSONArray(req.VideoLinks)
	if err != nil {
		return nil, err
	}
	photoURLs, err := toJSONArray(req.PhotoURLs)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		CohortID:    req.CohortID,
		StudentID:   actorID,
		Title:       req.Title,
		Description: req.Description,
		VideoLinks:  videoLinks,
		PhotoURLs:   photoURLs,
	}

	if err := s.repo.Project().Create(ctx, nil, project); err != nil {
		return nil, err
	}

	s.logger.Info("project submitted", "project_id", project.ID, "cohort_id", cohort.ID, "student_id", actorID)
	s.emitter.Emit(ctx, events.EventProjectSubmitted, map[string]interface{}{
		"project_id": project.ID,
		"cohort_id":  cohort.ID,
		"lab_id":     cohort.LabID,
		"student_id": actorID,
		"title":      project.Title,
	})
	s.invalidateDashboards(ctx, cohort.LabID)

	return project, nil
}

func toJSONArray(values []string) (datatypes.JSON, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode links: %w", err)
	}
	return datatypes.JSON(data), nil
}

func (s *projectService) GetProject(ctx context.Context, id uint) (*ProjectResponse, error) {
	project, err := s.repo.Project().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateNotFound(err)
	}

	stars, err := s.repo.Project().StarCount(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	resp := &ProjectResponse{Project: project, Stars: stars}
	if project.Student != nil {
		resp.StudentName = project.Student.FullName()
	}
	return resp, nil
}

func (s *projectService) ListByLab(ctx context.Context, actorID, labID uint) ([]*ProjectResponse, error) {
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
		// Students browse the gallery of labs they are enrolled in.
		allowed := false
		if actor.Role == models.RoleStudent {
			labIDs, err := studentLabs(ctx, s.repo, actorID)
			if err != nil {
				return nil, err
			}
			allowed = containsUint(labIDs, labID)
		}
		if !allowed {
			return nil, ErrForbidden
		}
	}

	rows, err := s.repo.Project().ByLab(ctx, nil, labID)
	if err != nil {
		return nil, err
	}
	return toProjectResponses(rows), nil
}

func (s *projectService) ListByCohort(ctx context.Context, actorID, cohortID uint) ([]*ProjectResponse, error) {
	cohort, err := s.repo.Cohort().GetByID(ctx, nil, cohortID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessLab(actor, cohort.LabID) {
		enrolled, err := s.repo.Enrollment().IsEnrolledInCohort(ctx, nil, actorID, cohortID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, ErrForbidden
		}
	}

	rows, err := s.repo.Project().ByCohort(ctx, nil, cohortID)
	if err != nil {
		return nil, err
	}
	return toProjectResponses(rows), nil
}

func (s *projectService) ListByStudent(ctx context.Context, studentID uint) ([]*ProjectResponse, error) {
	rows, err := s.repo.Project().ByStudent(ctx, nil, studentID, 0)
	if err != nil {
		return nil, err
	}
	return toProjectResponses(rows), nil
}

func toProjectResponses(rows []*repositories.ProjectWithStars) []*ProjectResponse {
	out := make([]*ProjectResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, &ProjectResponse{
			Project:     row.Project,
			Stars:       row.StarCount,
			StudentName: row.StudentName,
		})
	}
	return out
}

func (s *projectService) UpdateProject(ctx context.Context, actorID, projectID uint, req *ProjectUpdateRequest) (*models.Project, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	project, err := s.repo.Project().GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageProject(actor, project.StudentID, false) {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.VideoLinks != nil {
		links, err := toJSONArray(req.VideoLinks)
		if err != nil {
			return nil, err
		}
		project.VideoLinks = links
	}
	if req.PhotoURLs != nil {
		urls, err := toJSONArray(req.PhotoURLs)
		if err != nil {
			return nil, err
		}
		project.PhotoURLs = urls
	}

	if err := s.repo.Project().Update(ctx, nil, project); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, actorID, projectID uint) error {
	project, err := s.repo.Project().GetByID(ctx, nil, projectID)
	if err != nil {
		return translateNotFound(err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return err
	}
	if !authz.CanManageProject(actor, project.StudentID, true) {
		return ErrForbidden
	}

	if err := s.repo.Project().Delete(ctx, nil, projectID); err != nil {
		return translateNotFound(err)
	}

	s.logger.Info("project deleted", "project_id", projectID, "deleted_by", actorID)

	if cohort, err := s.repo.Cohort().GetByID(ctx, nil, project.CohortID); err == nil {
		s.invalidateDashboards(ctx, cohort.LabID)
	}
	return nil
}

// ===== STARS =====

// ToggleStar stars the project for the actor, or removes the star if one
// exists already.
func (s *projectService) ToggleStar(ctx context.Context, actorID, projectID uint) (*StarResponse, error) {
	project, err := s.repo.Project().GetByID(ctx, nil, projectID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	existing, err := s.repo.Project().FindStar(ctx, nil, projectID, actorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	starred := false
	if existing != nil {
		if err := s.repo.Project().RemoveStar(ctx, nil, projectID, actorID); err != nil {
			return nil, err
		}
	} else {
		star := &models.ProjectStar{ProjectID: projectID, UserID: actorID}
		if err := s.repo.Project().AddStar(ctx, nil, star); err != nil {
			return nil, err
		}
		starred = true
	}

	stars, err := s.repo.Project().StarCount(ctx, nil, projectID)
	if err != nil {
		return nil, err
	}

	if starred {
		s.emitter.Emit(ctx, events.EventProjectStarred, map[string]interface{}{
			"project_id": projectID,
			"starred_by": actorID,
			"owner_id":   project.StudentID,
			"stars":      stars,
		})
	}

	if cohort, err := s.repo.Cohort().GetByID(ctx, nil, project.CohortID); err == nil {
		s.invalidateDashboards(ctx, cohort.LabID)
	}

	return &StarResponse{Starred: starred, Stars: stars}, nil
}

// invalidateDashboards drops cached dashboards after a write. Cache failures
// are logged and never surface to the caller.
func (s *projectService) invalidateDashboards(ctx context.Context, labID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateLab(ctx, labID); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", "lab_id", labID, "error", err)
	}
}
