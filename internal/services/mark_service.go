package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/steamlab-platform/lab-service/internal/authz"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/validator"
)

// ===== REQUEST/RESPONSE TYPES =====

type MarkCreateRequest struct {
	Subject      string     `json:"subject" validate:"required,max=100"`
	Score        float64    `json:"score" validate:"min=0"`
	MaxScore     float64    `json:"max_score" validate:"required,gt=0"`
	Remarks      *string    `json:"remarks"`
	DateRecorded *time.Time `json:"date_recorded"`
}

type MarkUpdateRequest struct {
	Subject      *string    `json:"subject" validate:"omitempty,max=100"`
	Score        *float64   `json:"score" validate:"omitempty,min=0"`
	MaxScore     *float64   `json:"max_score" validate:"omitempty,gt=0"`
	Remarks      *string    `json:"remarks"`
	DateRecorded *time.Time `json:"date_recorded"`
}

// ===== SERVICE INTERFACE =====

type MarkService interface {
	AddMark(ctx context.Context, actorID, enrollmentID uint, req *MarkCreateRequest) (*models.Mark, error)
	ListMarks(ctx context.Context, actorID, enrollmentID uint) ([]*models.Mark, error)
	UpdateMark(ctx context.Context, actorID, markID uint, req *MarkUpdateRequest) (*models.Mark, error)
	MyMarks(ctx context.Context, studentID uint, limit int) ([]*models.Mark, error)
}

type markService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMarkService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) MarkService {
	return &markService{repo: repo, logger: logger, validator: v}
}

// enrollmentLab resolves the lab an enrollment belongs to, through its cohort.
func (s *markService) enrollmentLab(ctx context.Context, enrollmentID uint) (*models.StudentEnrollment, uint, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, enrollmentID)
	if err != nil {
		return nil, 0, translateNotFound(err)
	}

	cohort, err := s.repo.Cohort().GetByID(ctx, nil, enrollment.CohortID)
	if err != nil {
		return nil, 0, translateNotFound(err)
	}

	return enrollment, cohort.LabID, nil
}

func (s *markService) AddMark(ctx context.Context, actorID, enrollmentID uint, req *MarkCreateRequest) (*models.Mark, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	if req.Score > req.MaxScore {
		return nil, fmt.Errorf("%w: score exceeds max_score", ErrValidationFailed)
	}

	_, labID, err := s.enrollmentLab(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessLab(actor, labID) {
		return nil, ErrForbidden
	}

	recorded := time.Now().UTC()
	if req.DateRecorded != nil {
		recorded = *req.DateRecorded
	}

	mark := &models.Mark{
		EnrollmentID: enrollmentID,
		Subject:      req.Subject,
		Score:        req.Score,
		MaxScore:     req.MaxScore,
		Remarks:      req.Remarks,
		DateRecorded: recorded,
		RecordedBy:   actorID,
	}

	if err := s.repo.Mark().Create(ctx, nil, mark); err != nil {
		return nil, err
	}

	s.logger.Info("mark recorded", "mark_id", mark.ID, "enrollment_id", enrollmentID, "subject", mark.Subject, "recorded_by", actorID)
	return mark, nil
}

func (s *markService) ListMarks(ctx context.Context, actorID, enrollmentID uint) ([]*models.Mark, error) {
	enrollment, labID, err := s.enrollmentLab(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	// Students read their own marks; staff read marks of their lab.
	if enrollment.StudentID != actorID {
		actor, err := resolveActor(ctx, s.repo, actorID)
		if err != nil {
			return nil, err
		}
		if !authz.CanAccessLab(actor, labID) {
			return nil, ErrForbidden
		}
	}

	return s.repo.Mark().ByEnrollment(ctx, nil, enrollmentID)
}

func (s *markService) UpdateMark(ctx context.Context, actorID, markID uint, req *MarkUpdateRequest) (*models.Mark, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	mark, err := s.repo.Mark().GetByID(ctx, nil, markID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	_, labID, err := s.enrollmentLab(ctx, mark.EnrollmentID)
	if err != nil {
		return nil, err
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessLab(actor, labID) {
		return nil, ErrForbidden
	}

	if req.Subject != nil {
		mark.Subject = *req.Subject
	}
	if req.Score != nil {
		mark.Score = *req.Score
	}
	if req.MaxScore != nil {
		mark.MaxScore = *req.MaxScore
	}
	if req.Remarks != nil {
		mark.Remarks = req.Remarks
	}
	if req.DateRecorded != nil {
		mark.DateRecorded = *req.DateRecorded
	}
	if mark.Score > mark.MaxScore {
		return nil, fmt.Errorf("%w: score exceeds max_score", ErrValidationFailed)
	}

	if err := s.repo.Mark().Update(ctx, nil, mark); err != nil {
		return nil, err
	}

	return mark, nil
}

func (s *markService) MyMarks(ctx context.Context, studentID uint, limit int) ([]*models.Mark, error) {
	return s.repo.Mark().RecentByStudent(ctx, nil, studentID, limit)
}
