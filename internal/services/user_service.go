package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/steamlab-platform/lab-service/internal/auth"
	"github.com/steamlab-platform/lab-service/internal/authz"
	"github.com/steamlab-platform/lab-service/internal/events"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/validator"
)

// ===== REQUEST/RESPONSE TYPES =====

type LoginRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required,mobile_number"`
	Password     string `json:"password" validate:"required,min=6"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

type CreateUserRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	MiddleName   *string         `json:"middle_name" validate:"omitempty,max=100"`
	LastName     string          `json:"last_name" validate:"required,max=100"`
	MobileNumber string          `json:"mobile_number" validate:"required,mobile_number"`
	Email        *string         `json:"email" validate:"omitempty,email"`
	Password     string          `json:"password" validate:"required,min=6"`
	Role         models.UserRole `json:"role" validate:"required,user_role"`
	DateOfBirth  *time.Time      `json:"date_of_birth"`
	Gender       *string         `json:"gender" validate:"omitempty,max=20"`
	Address      *string         `json:"address"`
}

type UpdateProfileRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=100"`
	MiddleName  *string    `json:"middle_name" validate:"omitempty,max=100"`
	LastName    *string    `json:"last_name" validate:"omitempty,max=100"`
	Email       *string    `json:"email" validate:"omitempty,email"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender" validate:"omitempty,max=20"`
	Address     *string    `json:"address"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ===== SERVICE INTERFACE =====

type UserService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetProfile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error
	ResetPassword(ctx context.Context, actorID, targetID uint, req *ResetPasswordRequest) error
}

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	tokens    *auth.TokenManager
	emitter   eventEmitter
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, tokens *auth.TokenManager, publisher events.EventPublisher, topic string) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: v,
		tokens:    tokens,
		emitter:   newEventEmitter(publisher, topic, logger),
	}
}

// ===== AUTHENTICATION =====

func (s *userService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	user, err := s.repo.User().GetByMobile(ctx, nil, req.MobileNumber)
	if err != nil {
		// Do not reveal whether the mobile number exists
		return nil, ErrUnauthorized
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrUnauthorized
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        user,
	}, nil
}

// ===== USER MANAGEMENT =====

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
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
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
		Address:      req.Address,
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		return nil, translateNotFound(err)
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
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := s.repo.User().Update(ctx, nil, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ===== PASSWORD MANAGEMENT =====

func (s *userService) ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		return translateNotFound(err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return fmt.Errorf("%w: current password is incorrect", ErrValidationFailed)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.repo.User().UpdatePassword(ctx, nil, userID, hash)
}

// ResetPassword lets a superior set a new password for a subordinate. The
// decision table lives in the authz package; the target is looked up first
// so a missing target reads as not found rather than forbidden.
func (s *userService) ResetPassword(ctx context.Context, actorID, targetID uint, req *ResetPasswordRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	target, err := resolveTarget(ctx, s.repo, targetID)
	if err != nil {
		return err
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return err
	}

	if !authz.CanResetPassword(actor, target) {
		return ErrForbidden
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.User().UpdatePassword(ctx, nil, targetID, hash); err != nil {
		return translateNotFound(err)
	}

	s.logger.Info("password reset by superior", "actor_id", actorID, "target_id", targetID)
	s.emitter.Emit(ctx, events.EventUserPasswordReset, map[string]interface{}{
		"actor_id":  actorID,
		"target_id": targetID,
	})

	return nil
}
