package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/steamlab-platform/lab-service/internal/auth"
	"github.com/steamlab-platform/lab-service/internal/authz"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/validator"
)

// ===== REQUEST/RESPONSE TYPES =====

type StudentCreateItem struct {
	Name          string                    `json:"name" validate:"required,max=100"`
	MiddleName    *string                   `json:"middle_name" validate:"omitempty,max=100"`
	LastName      string                    `json:"last_name" validate:"required,max=100"`
	MobileNumber  string                    `json:"mobile_number" validate:"required,mobile_number"`
	Password      string                    `json:"password" validate:"required,min=6"`
	DateOfBirth   *time.Time                `json:"date_of_birth"`
	Gender        *string                   `json:"gender" validate:"omitempty,max=20"`
	JoinDateInLab *time.Time                `json:"join_date_in_lab"`
	LastYearMarks *string                   `json:"last_year_marks" validate:"omitempty,max=50"`
	MotherName    *string                   `json:"mother_name" validate:"omitempty,max=100"`
	MotherContact *string                   `json:"mother_contact" validate:"omitempty,max=20"`
	FatherName    *string                   `json:"father_name" validate:"omitempty,max=100"`
	FatherContact *string                   `json:"father_contact" validate:"omitempty,max=20"`
	Performance   *models.PerformanceStatus `json:"performance_status" validate:"omitempty,performance_status"`
}

type BulkStudentCreateRequest struct {
	Students []StudentCreateItem `json:"students" validate:"required,min=1,dive"`
}

type StudentUpdateRequest struct {
	Name          *string                   `json:"name" validate:"omitempty,max=100"`
	MiddleName    *string                   `json:"middle_name" validate:"omitempty,max=100"`
	LastName      *string                   `json:"last_name" validate:"omitempty,max=100"`
	DateOfBirth   *time.Time                `json:"date_of_birth"`
	Gender        *string                   `json:"gender" validate:"omitempty,max=20"`
	LastYearMarks *string                   `json:"last_year_marks" validate:"omitempty,max=50"`
	MotherName    *string                   `json:"mother_name" validate:"omitempty,max=100"`
	MotherContact *string                   `json:"mother_contact" validate:"omitempty,max=20"`
	FatherName    *string                   `json:"father_name" validate:"omitempty,max=100"`
	FatherContact *string                   `json:"father_contact" validate:"omitempty,max=20"`
	Performance   *models.PerformanceStatus `json:"performance_status" validate:"omitempty,performance_status"`
}

// ===== SERVICE INTERFACE =====

type StudentService interface {
	BulkCreateStudents(ctx context.Context, actorID, labID uint, req *BulkStudentCreateRequest) ([]*models.User, error)
	ListByLab(ctx context.Context, actorID, labID uint, filters repositories.StudentFilters) ([]*models.User, error)
	UpdateStudent(ctx context.Context, actorID, studentID uint, req *StudentUpdateRequest) (*models.User, error)
	Search(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error)
}

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) StudentService {
	return &studentService{repo: repo, logger: logger, validator: v}
}

// BulkCreateStudents creates a batch of student accounts atomically. Any
// mobile number that collides, inside the batch or with an existing user,
// rejects the whole batch and is reported back.
func (s *studentService) BulkCreateStudents(ctx context.Context, actorID, labID uint, req *BulkStudentCreateRequest) ([]*models.User, error) {
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

	mobiles := make([]string, 0, len(req.Students))
	for _, item := range req.Students {
		mobiles = append(mobiles, item.MobileNumber)
	}

	existing, err := s.repo.User().ExistingMobiles(ctx, nil, mobiles)
	if err != nil {
		return nil, err
	}

	if conflicts := conflictingMobiles(mobiles, existing); len(conflicts) > 0 {
		return nil, &DuplicateMobilesError{Mobiles: conflicts}
	}

	users := make([]*models.User, 0, len(req.Students))
	for _, item := range req.Students {
		hash, err := auth.HashPassword(item.Password)
		if err != nil {
			return nil, err
		}
		users = append(users, &models.User{
			Name:         item.Name,
			MiddleName:   item.MiddleName,
			LastName:     item.LastName,
			MobileNumber: item.MobileNumber,
			PasswordHash: hash,
			Role:         models.RoleStudent,
			DateOfBirth:  item.DateOfBirth,
			Gender:       item.Gender,
		})
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().CreateBatch(ctx, nil, users); err != nil {
			return err
		}

		for i, user := range users {
			item := req.Students[i]
			profile := &models.StudentProfile{
				UserID:            user.ID,
				JoinDateInLab:     item.JoinDateInLab,
				LastYearMarks:     item.LastYearMarks,
				PerformanceStatus: item.Performance,
				MotherName:        item.MotherName,
				MotherContact:     item.MotherContact,
				FatherName:        item.FatherName,
				FatherContact:     item.FatherContact,
			}
			if err := txRepo.User().SaveStudentProfile(ctx, nil, profile); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("students created", "count", len(users), "lab_id", labID, "created_by", actorID)
	return users, nil
}

// conflictingMobiles returns the sorted set of mobile numbers that appear
// more than once in the batch or already belong to a user.
func conflictingMobiles(requested, existing []string) []string {
	conflicts := make(map[string]bool)

	seen := make(map[string]bool, len(requested))
	for _, mobile := range requested {
		if seen[mobile] {
			conflicts[mobile] = true
		}
		seen[mobile] = true
	}

	for _, mobile := range existing {
		conflicts[mobile] = true
	}

	out := make([]string, 0, len(conflicts))
	for mobile := range conflicts {
		out = append(out, mobile)
	}
	sort.Strings(out)
	return out
}

func (s *studentService) ListByLab(ctx context.Context, actorID, labID uint, filters repositories.StudentFilters) ([]*models.User, error) {
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

	return s.repo.Enrollment().StudentsByLab(ctx, nil, labID, filters)
}

func (s *studentService) UpdateStudent(ctx context.Context, actorID, studentID uint, req *StudentUpdateRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	user, err := s.repo.User().GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if user.Role != models.RoleStudent {
		return nil, ErrNotFound
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}

	labIDs, err := studentLabs(ctx, s.repo, studentID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessAnyLab(actor, labIDs) {
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
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.User().Update(ctx, nil, user); err != nil {
			return err
		}

		profile := user.StudentProfile
		if profile == nil {
			profile = &models.StudentProfile{UserID: user.ID}
		}
		if req.LastYearMarks != nil {
			profile.LastYearMarks = req.LastYearMarks
		}
		if req.MotherName != nil {
			profile.MotherName = req.MotherName
		}
		if req.MotherContact != nil {
			profile.MotherContact = req.MotherContact
		}
		if req.FatherName != nil {
			profile.FatherName = req.FatherName
		}
		if req.FatherContact != nil {
			profile.FatherContact = req.FatherContact
		}
		if req.Performance != nil {
			profile.PerformanceStatus = req.Performance
		}

		return txRepo.User().SaveStudentProfile(ctx, nil, profile)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.User().GetByID(ctx, nil, studentID)
}

func (s *studentService) Search(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	role := models.RoleStudent
	filters.Role = &role
	return s.repo.User().List(ctx, nil, filters)
}
