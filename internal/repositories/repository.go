package repositories

import "context"

// Repository bundles all repository interfaces behind one entry point.
type Repository interface {
	User() UserRepository
	School() SchoolRepository
	Lab() LabRepository
	Cohort() CohortRepository
	Enrollment() EnrollmentRepository
	Project() ProjectRepository
	Mark() MarkRepository
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
