package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/steamlab-platform/lab-service/internal/repositories"
)

// ===== TYPES =====

type LeaderboardType string

const (
	LeaderboardStudents LeaderboardType = "student"
	LeaderboardProjects LeaderboardType = "project"
)

type LeaderboardPeriod string

const (
	PeriodMonth   LeaderboardPeriod = "month"
	PeriodYear    LeaderboardPeriod = "year"
	PeriodAllTime LeaderboardPeriod = "all_time"
)

const leaderboardSize = 10

type Leaderboard struct {
	Type     LeaderboardType               `json:"type"`
	Period   LeaderboardPeriod             `json:"period"`
	Students []RankedStudent               `json:"students,omitempty"`
	Projects []repositories.ProjectStarRow `json:"projects,omitempty"`
}

// ===== SERVICE INTERFACE =====

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, kind LeaderboardType, period LeaderboardPeriod) (*Leaderboard, error)
}

type leaderboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewLeaderboardService(repo repositories.Repository, logger *slog.Logger) LeaderboardService {
	return &leaderboardService{repo: repo, logger: logger}
}

// GetLeaderboard ranks the whole platform for the given period. Students are
// scored on submissions and received stars; projects rank on stars gathered
// within the window.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, kind LeaderboardType, period LeaderboardPeriod) (*Leaderboard, error) {
	from, err := periodWindow(time.Now().UTC(), period)
	if err != nil {
		return nil, err
	}

	board := &Leaderboard{Type: kind, Period: period}

	switch kind {
	case LeaderboardStudents:
		activity, err := s.repo.Dashboard().StudentActivity(ctx, nil, from, nil)
		if err != nil {
			return nil, err
		}
		board.Students = rankStudents(activity, leaderboardSize)

	case LeaderboardProjects:
		projects, err := s.repo.Dashboard().TopProjects(ctx, nil, from, nil, leaderboardSize)
		if err != nil {
			return nil, err
		}
		board.Projects = projects

	default:
		return nil, fmt.Errorf("%w: unknown leaderboard type %q", ErrValidationFailed, kind)
	}

	return board, nil
}

// periodWindow maps a period onto the start of its time window. All-time has
// no lower bound and returns nil.
func periodWindow(now time.Time, period LeaderboardPeriod) (*time.Time, error) {
	switch period {
	case PeriodMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return &start, nil
	case PeriodYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return &start, nil
	case PeriodAllTime:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard period %q", ErrValidationFailed, period)
	}
}
