package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/steamlab-platform/lab-service/internal/auth"
	"github.com/steamlab-platform/lab-service/internal/authz"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/validator"
)

// ===== REQUEST/RESPONSE TYPES =====

type TeacherCreateRequest struct {
	Name          string          `json:"name" validate:"required,max=100"`
	MiddleName    *string         `json:"middle_name" validate:"omitempty,max=100"`
	LastName      string          `json:"last_name" validate:"required,max=100"`
	MobileNumber  string          `json:"mobile_number" validate:"required,mobile_number"`
	Email         *string         `json:"email" validate:"omitempty,email"`
	Password      string          `json:"password" validate:"required,min=6"`
	Role          models.UserRole `json:"role" validate:"required,oneof=lab_head teacher"`
	Bio           *string         `json:"bio"`
	PhotoURL      *string         `json:"photo_url" validate:"omitempty,max=500"`
	DateOfJoining *time.Time      `json:"date_of_joining"`
	Skills        []string        `json:"skills" validate:"omitempty,dive,max=100"`
}

type TeacherUpdateRequest struct {
	Name          *string    `json:"name" validate:"omitempty,max=100"`
	MiddleName    *string    `json:"middle_name" validate:"omitempty,max=100"`
	LastName      *string    `json:"last_name" validate:"omitempty,max=100"`
	Email         *string    `json:"email" validate:"omitempty,email"`
	Bio           *string    `json:"bio"`
	PhotoURL      *string    `json:"photo_url" validate:"omitempty,max=500"`
	DateOfJoining *time.Time `json:"date_of_joining"`
	Skills        []string   `json:"skills" validate:"omitempty,dive,max=100"`
}

// ===== SERVICE INTERFACE =====

type TeacherService interface {
	CreateTeacher(ctx context.Context, actorID, labID uint, req *TeacherCreateRequest) (*models.User, error)
	ListByLab(ctx context.Context, actorID, labID uint) ([]*models.User, error)
	GetTeacher(ctx context.Context, id uint) (*models.User, error)
	UpdateTeacher(ctx context.Context, actorID, teacherID uint, req *TeacherUpdateRequest) (*models.User, error)
}

type teacherService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTeacherService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) TeacherService {
	return &teacherService{repo: repo, logger: logger, validator: v}
}

func (s *teacherService) CreateTeacher(ctx context.Context, actorID, labID uint, req *TeacherCreateRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

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

	existing, err := s.repo.User().ExistingMobiles(ctx, nil, []string{req.MobileNumber})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, &DuplicateMobilesError{Mobiles: existing}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		MobileNumber: req.MobileNumber,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			return err
		}

		profile := &models.TeacherProfile{
			UserID:        user.ID,
			LabID:         &labID,
			Bio:           req.Bio,
			PhotoURL:      req.PhotoURL,
			DateOfJoining: req.DateOfJoining,
		}
		if err := txRepo.User().SaveTeacherProfile(ctx, nil, profile); err != nil {
			return err
		}

		return txRepo.User().ReplaceSkills(ctx, nil, user.ID, req.Skills)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("teacher created", "teacher_id", user.ID, "lab_id", labID, "created_by", actorID)

	return s.repo.User().GetByID(ctx, nil, user.ID)
}

func (s *teacherService) ListByLab(ctx context.Context, actorID, labID uint) ([]*models.User, error) {
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

	return s.repo.Lab().Teachers(ctx, nil, labID)
}

func (s *teacherService) GetTeacher(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if !user.Role.IsStaff() {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *teacherService) UpdateTeacher(ctx context.Context, actorID, teacherID uint, req *TeacherUpdateRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	user, err := s.repo.User().GetByID(ctx, nil, teacherID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if !user.Role.IsStaff() {
		return nil, ErrNotFound
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	// Teachers edit themselves; lab heads edit staff of their lab.
	allowed := actor.ID == teacherID
	if !allowed && user.TeacherProfile != nil && user.TeacherProfile.LabID != nil {
		allowed = actor.Role != models.RoleTeacher && authz.CanAccessLab(actor, *user.TeacherProfile.LabID)
	}
	if !allowed && actor.Role.IsAdministrative() {
		allowed = true
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.MiddleName != nil {
		user.MiddleName = req.MiddleName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Email != nil {
		user.Email = req.Email
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Update(ctx, nil, user); err != nil {
			return err
		}

		if req.Bio != nil || req.PhotoURL != nil || req.DateOfJoining != nil {
			profile := user.TeacherProfile
			if profile == nil {
				profile = &models.TeacherProfile{UserID: user.ID}
			}
			if req.Bio != nil {
				profile.Bio = req.Bio
			}
			if req.PhotoURL != nil {
				profile.PhotoURL = req.PhotoURL
			}
			if req.DateOfJoining != nil {
				profile.DateOfJoining = req.DateOfJoining
			}
			if err := txRepo.User().SaveTeacherProfile(ctx, nil, profile); err != nil {
				return err
			}
		}

		if req.Skills != nil {
			return txRepo.User().ReplaceSkills(ctx, nil, user.ID, req.Skills)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.User().GetByID(ctx, nil, teacherID)
}
