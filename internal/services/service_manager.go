package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/steamlab-platform/lab-service/internal/auth"
	"github.com/steamlab-platform/lab-service/internal/cache"
	"github.com/steamlab-platform/lab-service/internal/events"
	"github.com/steamlab-platform/lab-service/internal/repositories"
	"github.com/steamlab-platform/lab-service/internal/validator"
)

// ServiceManager wires up all domain services and manages their lifecycle.
type ServiceManager interface {
	User() UserService
	School() SchoolService
	Lab() LabService
	Teacher() TeacherService
	Student() StudentService
	Enrollment() EnrollmentService
	Project() ProjectService
	Mark() MarkService
	Dashboard() DashboardService
	Leaderboard() LeaderboardService
	Report() ReportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ServiceManagerConfig holds configuration shared by the services.
type ServiceManagerConfig struct {
	JWTSecret   string
	JWTExpiry   time.Duration
	EventsTopic string
}

type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     *cache.DashboardCache
	config    ServiceManagerConfig

	// Service instances
	userService        UserService
	schoolService      SchoolService
	labService         LabService
	teacherService     TeacherService
	studentService     StudentService
	enrollmentService  EnrollmentService
	projectService     ProjectService
	markService        MarkService
	dashboardService   DashboardService
	leaderboardService LeaderboardService
	reportService      ReportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, dashCache *cache.DashboardCache, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
		cache:     dashCache,
		config:    config,
	}
}

// Initialize builds all service instances.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if sm.config.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	sm.logger.Info("initializing service manager")

	tokens := auth.NewTokenManager(sm.config.JWTSecret, sm.config.JWTExpiry)
	topic := sm.config.EventsTopic

	sm.userService = NewUserService(sm.repo, sm.logger, sm.validator, tokens, sm.publisher, topic)
	sm.schoolService = NewSchoolService(sm.repo, sm.logger, sm.validator)
	sm.labService = NewLabService(sm.repo, sm.logger, sm.validator)
	sm.teacherService = NewTeacherService(sm.repo, sm.logger, sm.validator)
	sm.studentService = NewStudentService(sm.repo, sm.logger, sm.validator)
	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.logger, sm.validator, sm.publisher, topic)
	sm.projectService = NewProjectService(sm.repo, sm.logger, sm.validator, sm.cache, sm.publisher, topic)
	sm.markService = NewMarkService(sm.repo, sm.logger, sm.validator)
	sm.dashboardService = NewDashboardService(sm.repo, sm.logger, sm.cache)
	sm.leaderboardService = NewLeaderboardService(sm.repo, sm.logger)
	sm.reportService = NewReportService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("service manager initialized")

	return nil
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// ===== SERVICE GETTERS =====

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) School() SchoolService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.schoolService
}

func (sm *serviceManager) Lab() LabService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.labService
}

func (sm *serviceManager) Teacher() TeacherService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.teacherService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.studentService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.enrollmentService
}

func (sm *serviceManager) Project() ProjectService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.projectService
}

func (sm *serviceManager) Mark() MarkService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.markService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) Leaderboard() LeaderboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.leaderboardService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.reportService
}

// ===== HEALTH AND LIFECYCLE =====

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("service manager shut down")

	return nil
}
