package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/validator"
)

// ===== REQUEST/RESPONSE TYPES =====

type LabCreateRequest struct {
	SchoolID    uint    `json:"school_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description"`
}

type LabUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description"`
}

type LabListResponse struct {
	Labs   []*models.Lab `json:"labs"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// ===== SERVICE INTERFACE =====

type LabService interface {
	Create(ctx context.Context, req *LabCreateRequest) (*models.Lab, error)
	Get(ctx context.Context, id uint) (*models.Lab, error)
	List(ctx context.Context, filters repositories.LabFilters) (*LabListResponse, error)
	Update(ctx context.Context, id uint, req *LabUpdateRequest) (*models.Lab, error)
	Delete(ctx context.Context, id uint) error
}

type labService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewLabService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) LabService {
	return &labService{repo: repo, logger: logger, validator: v}
}

func (s *labService) Create(ctx context.Context, req *LabCreateRequest) (*models.Lab, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	exists, err := s.repo.School().Exists(ctx, nil, req.SchoolID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("school %d: %w", req.SchoolID, ErrNotFound)
	}

	lab := &models.Lab{
		SchoolID:    req.SchoolID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Lab().Create(ctx, nil, lab); err != nil {
		return nil, err
	}

	s.logger.Info("lab created", "lab_id", lab.ID, "school_id", lab.SchoolID)
	return lab, nil
}

func (s *labService) Get(ctx context.Context, id uint) (*models.Lab, error) {
	lab, err := s.repo.Lab().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return lab, nil
}

func (s *labService) List(ctx context.Context, filters repositories.LabFilters) (*LabListResponse, error) {
	labs, total, err := s.repo.Lab().List(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	return &LabListResponse{
		Labs:   labs,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

func (s *labService) Update(ctx context.Context, id uint, req *LabUpdateRequest) (*models.Lab, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	lab, err := s.repo.Lab().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateNotFound(err)
	}

	if req.Name != nil {
		lab.Name = *req.Name
	}
	if req.Description != nil {
		lab.Description = req.Description
	}

	if err := s.repo.Lab().Update(ctx, nil, lab); err != nil {
		return nil, err
	}

	return lab, nil
}

func (s *labService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Lab().Delete(ctx, nil, id); err != nil {
		return translateNotFound(err)
	}

	s.logger.Info("lab deleted", "lab_id", id)
	return nil
}
