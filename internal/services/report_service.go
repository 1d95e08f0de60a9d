package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/steamlab-platform/lab-service/internal/authz"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

// ===== RESPONSE TYPES =====

type LabReport struct {
	Cohort   *models.EnrollmentCohort    `json:"cohort"`
	Teachers []*models.User              `json:"teachers"`
	Students []*models.StudentEnrollment `json:"students"`
	Projects []*ProjectResponse          `json:"projects"`
}

type TopStudentEntry struct {
	Rank      int    `json:"rank"`
	StudentID uint   `json:"student_id"`
	Name      string `json:"name"`
	LastName  string `json:"last_name"`
	Projects  int64  `json:"projects"`
	Stars     int64  `json:"stars"`
	Score     int64  `json:"score"`
}

type TopStudentReport struct {
	Month    int               `json:"month"`
	Year     int               `json:"year"`
	Students []TopStudentEntry `json:"students"`
}

// ===== SERVICE INTERFACE =====

type ReportService interface {
	GetLabReport(ctx context.Context, actorID, cohortID uint) (*LabReport, error)
	ExportLabReportXLSX(ctx context.Context, actorID, cohortID uint) ([]byte, string, error)
	GetTopStudentReport(ctx context.Context, month, year int) (*TopStudentReport, error)
}

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ===== LAB REPORT =====

func (s *reportService) GetLabReport(ctx context.Context, actorID, cohortID uint) (*LabReport, error) {
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

	teachers, err := s.repo.Lab().Teachers(ctx, nil, cohort.LabID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment().ByCohort(ctx, nil, cohortID)
	if err != nil {
		return nil, err
	}

	projects, err := s.repo.Project().ByCohort(ctx, nil, cohortID)
	if err != nil {
		return nil, err
	}

	return &LabReport{
		Cohort:   cohort,
		Teachers: teachers,
		Students: enrollments,
		Projects: toProjectResponses(projects),
	}, nil
}

// ExportLabReportXLSX renders the lab report as a spreadsheet with one sheet
// each for teachers, students and projects.
func (s *reportService) ExportLabReportXLSX(ctx context.Context, actorID, cohortID uint) ([]byte, string, error) {
	report, err := s.GetLabReport(ctx, actorID, cohortID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close spreadsheet", "error", err)
		}
	}()

	if err := s.writeTeacherSheet(f, report.Teachers); err != nil {
		return nil, "", err
	}
	if err := s.writeStudentSheet(f, report.Students); err != nil {
		return nil, "", err
	}
	if err := s.writeProjectSheet(f, report.Projects); err != nil {
		return nil, "", err
	}

	// The default sheet was renamed to Teachers; make it the active one.
	index, err := f.GetSheetIndex("Teachers")
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	filename := fmt.Sprintf("lab-report-%s-%s.xlsx",
		sanitizeFilename(report.Cohort.BatchName),
		time.Now().UTC().Format("2006-01-02"))

	s.logger.Info("lab report exported", "cohort_id", cohortID, "exported_by", actorID)
	return buf.Bytes(), filename, nil
}

func (s *reportService) writeTeacherSheet(f *excelize.File, teachers []*models.User) error {
	const sheet = "Teachers"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Name", "Mobile Number", "Role", "Date of Joining"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	for i, t := range teachers {
		row := i + 2
		joined := ""
		if t.TeacherProfile != nil && t.TeacherProfile.DateOfJoining != nil {
			joined = t.TeacherProfile.DateOfJoining.Format("2006-01-02")
		}
		values := []interface{}{t.ID, t.FullName(), t.MobileNumber, string(t.Role), joined}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
	}
	return nil
}

func (s *reportService) writeStudentSheet(f *excelize.File, enrollments []*models.StudentEnrollment) error {
	const sheet = "Students"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Enrollment ID", "Student ID", "Name", "Mobile Number", "Performance"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	for i, e := range enrollments {
		row := i + 2
		name, mobile, performance := "", "", ""
		if e.Student != nil {
			name = e.Student.FullName()
			mobile = e.Student.MobileNumber
			if e.Student.StudentProfile != nil && e.Student.StudentProfile.PerformanceStatus != nil {
				performance = string(*e.Student.StudentProfile.PerformanceStatus)
			}
		}
		values := []interface{}{e.ID, e.StudentID, name, mobile, performance}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
	}
	return nil
}

func (s *reportService) writeProjectSheet(f *excelize.File, projects []*ProjectResponse) error {
	const sheet = "Projects"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Title", "Student", "Stars", "Submitted"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return err
	}

	for i, p := range projects {
		row := i + 2
		values := []interface{}{
			p.Project.ID,
			p.Project.Title,
			p.StudentName,
			p.Stars,
			p.Project.CreatedAt.Format("2006-01-02"),
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return err
		}
	}
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ' || r == ',' || r == '/':
			if len(out) > 0 && out[len(out)-1] != '-' {
				out = append(out, '-')
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}

// ===== TOP STUDENT REPORT =====

// GetTopStudentReport ranks students by activity within one calendar month.
func (s *reportService) GetTopStudentReport(ctx context.Context, month, year int) (*TopStudentReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be between 1 and 12", ErrValidationFailed)
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: year %d out of range", ErrValidationFailed, year)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	activity, err := s.repo.Dashboard().StudentActivity(ctx, nil, &from, &to)
	if err != nil {
		return nil, err
	}

	ranked := rankStudents(activity, 0)
	entries := make([]TopStudentEntry, 0, len(ranked))
	for i, r := range ranked {
		entries = append(entries, TopStudentEntry{
			Rank:      i + 1,
			StudentID: r.StudentID,
			Name:      r.Name,
			LastName:  r.LastName,
			Projects:  r.Projects,
			Stars:     r.Stars,
			Score:     r.Score,
		})
	}

	return &TopStudentReport{Month: month, Year: year, Students: entries}, nil
}
