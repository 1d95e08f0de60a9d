package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/steamlab-platform/lab-service/internal/authz"
	"github.com/steamlab-platform/lab-service/internal/events"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/validator"
)

// ===== REQUEST/RESPONSE TYPES =====

type CohortCreateRequest struct {
	AcademicYear       int                        `json:"academic_year" validate:"required,min=2000,max=2100"`
	Section            models.LabSection          `json:"section" validate:"required,lab_section"`
	Standard           int                        `json:"standard" validate:"required,standard"`
	GrokSpecialization *models.GrokSpecialization `json:"grok_specialization" validate:"omitempty,grok_specialization"`
	SemesterStart      *time.Time                 `json:"semester_start"`
	SemesterEnd        *time.Time                 `json:"semester_end"`
}

type CohortUpdateRequest struct {
	AcademicYear       *int                       `json:"academic_year" validate:"omitempty,min=2000,max=2100"`
	Section            *models.LabSection         `json:"section" validate:"omitempty,lab_section"`
	Standard           *int                       `json:"standard" validate:"omitempty,standard"`
	GrokSpecialization *models.GrokSpecialization `json:"grok_specialization" validate:"omitempty,grok_specialization"`
	SemesterStart      *time.Time                 `json:"semester_start"`
	SemesterEnd        *time.Time                 `json:"semester_end"`
}

type EnrollStudentsRequest struct {
	StudentIDs []uint `json:"student_ids" validate:"required,min=1"`
}

type EnrollStudentsResponse struct {
	Enrolled []uint `json:"enrolled"`
	Skipped  []uint `json:"skipped"`
}

type AssignTeacherRequest struct {
	TeacherID uint `json:"teacher_id" validate:"required"`
}

// ===== SERVICE INTERFACE =====

type EnrollmentService interface {
	CreateCohort(ctx context.Context, actorID, labID uint, req *CohortCreateRequest) (*models.EnrollmentCohort, error)
	GetCohort(ctx context.Context, actorID, cohortID uint) (*models.EnrollmentCohort, error)
	ListCohortsByLab(ctx context.Context, actorID, labID uint) ([]*models.EnrollmentCohort, error)
	UpdateCohort(ctx context.Context, actorID, cohortID uint, req *CohortUpdateRequest) (*models.EnrollmentCohort, error)
	DeleteCohort(ctx context.Context, actorID, cohortID uint) error

	EnrollStudents(ctx context.Context, actorID, cohortID uint, req *EnrollStudentsRequest) (*EnrollStudentsResponse, error)
	UnenrollStudent(ctx context.Context, actorID, enrollmentID uint) error
	MyEnrollments(ctx context.Context, studentID uint) ([]*models.StudentEnrollment, error)

	AssignTeacher(ctx context.Context, actorID, cohortID uint, req *AssignTeacherRequest) error
	MyAssignments(ctx context.Context, teacherID uint) ([]*models.EnrollmentCohort, error)
}

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	emitter   eventEmitter
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, topic string) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		validator: v,
		emitter:   newEventEmitter(publisher, topic, logger),
	}
}

// ===== COHORTS =====

func (s *enrollmentService) CreateCohort(ctx context.Context, actorID, labID uint, req *CohortCreateRequest) (*models.EnrollmentCohort, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}
	if req.Section == models.SectionGrok && req.GrokSpecialization == nil {
		return nil, fmt.Errorf("%w: grok_specialization is required for GROK cohorts", ErrValidationFailed)
	}
	if req.Section == models.SectionCFLC && req.GrokSpecialization != nil {
		return nil, fmt.Errorf("%w: grok_specialization only applies to GROK cohorts", ErrValidationFailed)
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

	cohort := &models.EnrollmentCohort{
		LabID:              labID,
		AcademicYear:       req.AcademicYear,
		Section:            req.Section,
		Standard:           req.Standard,
		BatchName:          generateCohortName(req.AcademicYear, req.Section, req.Standard, req.GrokSpecialization),
		GrokSpecialization: req.GrokSpecialization,
		SemesterStart:      req.SemesterStart,
		SemesterEnd:        req.SemesterEnd,
		CreatedBy:          actorID,
	}

	if err := s.repo.Cohort().Create(ctx, nil, cohort); err != nil {
		return nil, err
	}

	s.logger.Info("cohort created", "cohort_id", cohort.ID, "lab_id", labID, "batch_name", cohort.BatchName)
	return cohort, nil
}

// generateCohortName builds the display name of a cohort, for example
// "2025, GROK, 8th std, IOT" or "2025, CFLC, 3rd std".
func generateCohortName(year int, section models.LabSection, standard int, spec *models.GrokSpecialization) string {
	name := fmt.Sprintf("%d, %s, %s std", year, section, ordinal(standard))
	if spec != nil {
		name += ", " + string(*spec)
	}
	return name
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		if n%100 != 11 {
			suffix = "st"
		}
	case 2:
		if n%100 != 12 {
			suffix = "nd"
		}
	case 3:
		if n%100 != 13 {
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func (s *enrollmentService) GetCohort(ctx context.Context, actorID, cohortID uint) (*models.EnrollmentCohort, error) {
	cohort, err := s.repo.Cohort().GetByID(ctx, nil, cohortID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessLab(actor, cohort.LabID) {
		// Students see cohorts of labs they are enrolled in.
		allowed := false
		if actor.Role == models.RoleStudent {
			labIDs, err := studentLabs(ctx, s.repo, actorID)
			if err != nil {
				return nil, err
			}
			allowed = containsUint(labIDs, cohort.LabID)
		}
		if !allowed {
			return nil, ErrForbidden
		}
	}

	return cohort, nil
}

func containsUint(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *enrollmentService) ListCohortsByLab(ctx context.Context, actorID, labID uint) ([]*models.EnrollmentCohort, error) {
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

	return s.repo.Cohort().ListByLab(ctx, nil, labID)
}

func (s *enrollmentService) UpdateCohort(ctx context.Context, actorID, cohortID uint, req *CohortUpdateRequest) (*models.EnrollmentCohort, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	cohort, err := s.repo.Cohort().GetByID(ctx, nil, cohortID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessLab(actor, cohort.LabID) {
		return nil, ErrForbidden
	}

	if req.AcademicYear != nil {
		cohort.AcademicYear = *req.AcademicYear
	}
	if req.Section != nil {
		cohort.Section = *req.Section
	}
	if req.Standard != nil {
		cohort.Standard = *req.Standard
	}
	if req.GrokSpecialization != nil {
		cohort.GrokSpecialization = req.GrokSpecialization
	}
	if req.SemesterStart != nil {
		cohort.SemesterStart = req.SemesterStart
	}
	if req.SemesterEnd != nil {
		cohort.SemesterEnd = req.SemesterEnd
	}

	if cohort.Section == models.SectionCFLC {
		cohort.GrokSpecialization = nil
	}
	cohort.BatchName = generateCohortName(cohort.AcademicYear, cohort.Section, cohort.Standard, cohort.GrokSpecialization)

	if err := s.repo.Cohort().Update(ctx, nil, cohort); err != nil {
		return nil, err
	}

	return cohort, nil
}

func (s *enrollmentService) DeleteCohort(ctx context.Context, actorID, cohortID uint) error {
	cohort, err := s.repo.Cohort().GetByID(ctx, nil, cohortID)
	if err != nil {
		return translateNotFound(err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return err
	}
	if !authz.CanAccessLab(actor, cohort.LabID) {
		return ErrForbidden
	}

	if err := s.repo.Cohort().Delete(ctx, nil, cohortID); err != nil {
		return translateNotFound(err)
	}

	s.logger.Info("cohort deleted", "cohort_id", cohortID, "deleted_by", actorID)
	return nil
}

// ===== STUDENT ENROLLMENT =====

// EnrollStudents adds students to a cohort. Unknown ids reject the whole
// batch; students already enrolled are skipped, so retrying a batch is safe.
func (s *enrollmentService) EnrollStudents(ctx context.Context, actorID, cohortID uint, req *EnrollStudentsRequest) (*EnrollStudentsResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	cohort, err := s.repo.Cohort().GetByID(ctx, nil, cohortID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessLab(actor, cohort.LabID) {
		return nil, ErrForbidden
	}

	valid, err := s.repo.User().ExistingStudentIDs(ctx, nil, req.StudentIDs)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.repo.Enrollment().EnrolledStudentIDs(ctx, nil, cohortID, req.StudentIDs)
	if err != nil {
		return nil, err
	}

	newIDs, skipped, invalid := partitionEnrollmentIDs(req.StudentIDs, valid, enrolled)
	if len(invalid) > 0 {
		return nil, &InvalidStudentIDsError{IDs: invalid}
	}

	if len(newIDs) > 0 {
		enrollments := make([]*models.StudentEnrollment, 0, len(newIDs))
		for _, id := range newIDs {
			enrollments = append(enrollments, &models.StudentEnrollment{
				CohortID:  cohortID,
				StudentID: id,
			})
		}
		if err := s.repo.Enrollment().CreateBatch(ctx, nil, enrollments); err != nil {
			return nil, err
		}

		s.logger.Info("students enrolled", "cohort_id", cohortID, "count", len(newIDs), "skipped", len(skipped))
		s.emitter.Emit(ctx, events.EventStudentsEnrolled, map[string]interface{}{
			"cohort_id":   cohortID,
			"lab_id":      cohort.LabID,
			"student_ids": newIDs,
			"enrolled_by": actorID,
		})
	}

	return &EnrollStudentsResponse{Enrolled: newIDs, Skipped: skipped}, nil
}

// partitionEnrollmentIDs splits the requested ids into new enrollments,
// already-enrolled skips and unknown students, preserving request order and
// dropping duplicates within the request.
func partitionEnrollmentIDs(requested, valid, enrolled []uint) (newIDs, skipped, invalid []uint) {
	validSet := make(map[uint]bool, len(valid))
	for _, id := range valid {
		validSet[id] = true
	}
	enrolledSet := make(map[uint]bool, len(enrolled))
	for _, id := range enrolled {
		enrolledSet[id] = true
	}

	seen := make(map[uint]bool, len(requested))
	newIDs = []uint{}
	skipped = []uint{}
	for _, id := range requested {
		if seen[id] {
			continue
		}
		seen[id] = true

		switch {
		case !validSet[id]:
			invalid = append(invalid, id)
		case enrolledSet[id]:
			skipped = append(skipped, id)
		default:
			newIDs = append(newIDs, id)
		}
	}
	return newIDs, skipped, invalid
}

func (s *enrollmentService) UnenrollStudent(ctx context.Context, actorID, enrollmentID uint) error {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, enrollmentID)
	if err != nil {
		return translateNotFound(err)
	}

	cohort, err := s.repo.Cohort().GetByID(ctx, nil, enrollment.CohortID)
	if err != nil {
		return translateNotFound(err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return err
	}
	if !authz.CanAccessLab(actor, cohort.LabID) {
		return ErrForbidden
	}

	if err := s.repo.Enrollment().Delete(ctx, nil, enrollmentID); err != nil {
		return translateNotFound(err)
	}

	s.logger.Info("student unenrolled", "enrollment_id", enrollmentID, "cohort_id", cohort.ID, "removed_by", actorID)
	return nil
}

func (s *enrollmentService) MyEnrollments(ctx context.Context, studentID uint) ([]*models.StudentEnrollment, error) {
	return s.repo.Enrollment().ByStudent(ctx, nil, studentID)
}

// ===== TEACHER ASSIGNMENT =====

func (s *enrollmentService) AssignTeacher(ctx context.Context, actorID, cohortID uint, req *AssignTeacherRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidationFailed, err.Error())
	}

	cohort, err := s.repo.Cohort().GetByID(ctx, nil, cohortID)
	if err != nil {
		return translateNotFound(err)
	}

	actor, err := resolveActor(ctx, s.repo, actorID)
	if err != nil {
		return err
	}
	if !authz.CanAccessLab(actor, cohort.LabID) {
		return ErrForbidden
	}

	teacher, err := s.repo.User().GetByID(ctx, nil, req.TeacherID)
	if err != nil {
		return fmt.Errorf("teacher %d: %w", req.TeacherID, translateNotFound(err))
	}
	if !teacher.Role.IsStaff() {
		return fmt.Errorf("%w: user %d is not a teacher", ErrValidationFailed, req.TeacherID)
	}
	if teacher.TeacherProfile == nil || teacher.TeacherProfile.LabID == nil || *teacher.TeacherProfile.LabID != cohort.LabID {
		return fmt.Errorf("%w: teacher %d does not belong to lab %d", ErrValidationFailed, req.TeacherID, cohort.LabID)
	}

	assigned, err := s.repo.Cohort().TeacherAssigned(ctx, nil, cohortID, req.TeacherID)
	if err != nil {
		return err
	}
	if assigned {
		return nil
	}

	assignment := &models.CohortTeacher{CohortID: cohortID, TeacherID: req.TeacherID}
	if err := s.repo.Cohort().AssignTeacher(ctx, nil, assignment); err != nil {
		return err
	}

	s.logger.Info("teacher assigned", "cohort_id", cohortID, "teacher_id", req.TeacherID, "assigned_by", actorID)
	return nil
}

func (s *enrollmentService) MyAssignments(ctx context.Context, teacherID uint) ([]*models.EnrollmentCohort, error) {
	return s.repo.Cohort().CohortsByTeacher(ctx, nil, teacherID)
}
