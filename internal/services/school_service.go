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

type SchoolCreateRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Address      *string `json:"address"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=20"`
}

type SchoolUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Address      *string `json:"address"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone" validate:"omitempty,max=20"`
}

type SchoolListResponse struct {
	Schools []*models.School `json:"schools"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ===== SERVICE INTERFACE =====

type SchoolService interface {
	Create(ctx context.Context, req *SchoolCreateRequest) (*models.School, error)
	Get(ctx context.Context, id uint) (*models.School, error)
	List(ctx context.Context, filters repositories.SchoolFilters) (*SchoolListResponse, error)
	Update(ctx context.Context, id uint, req *SchoolUpdateRequest) (*models.School, error)
	Delete(ctx context.Context, id uint) error
}

type schoolService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSchoolService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) SchoolService {
	return &schoolService{repo: repo, logger: logger, validator: v}
}

func (s *schoolService) Create(ctx context.Context, req *SchoolCreateRequest) (*models.School, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	school := &models.School{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	}

	if err := s.repo.School().Create(ctx, nil, school); err != nil {
		return nil, err
	}

	s.logger.Info("school created", "school_id", school.ID, "name", school.Name)
	return school, nil
}

func (s *schoolService) Get(ctx context.Context, id uint) (*models.School, error) {
	school, err := s.repo.School().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return school, nil
}

func (s *schoolService) List(ctx context.Context, filters repositories.SchoolFilters) (*SchoolListResponse, error) {
	schools, total, err := s.repo.School().List(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	return &SchoolListResponse{
		Schools: schools,
		Total:   total,
		Limit:   filters.Limit,
		Offset:  filters.Offset,
	}, nil
}

func (s *schoolService) Update(ctx context.Context, id uint, req *SchoolUpdateRequest) (*models.School, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	school, err := s.repo.School().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateNotFound(err)
	}

	if req.Name != nil {
		school.Name = *req.Name
	}
	if req.Address != nil {
		school.Address = req.Address
	}
	if req.City != nil {
		school.City = req.City
	}
	if req.ContactEmail != nil {
		school.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != nil {
		school.ContactPhone = req.ContactPhone
	}

	if err := s.repo.School().Update(ctx, nil, school); err != nil {
		return nil, err
	}

	return school, nil
}

func (s *schoolService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.School().Delete(ctx, nil, id); err != nil {
		return translateNotFound(err)
	}

	s.logger.Info("school deleted", "school_id", id)
	return nil
}
