package repositories

import "context"

// Repository aggregates every sub-repository and the transaction boundary.
type Repository interface {
	User() UserRepository
	Role() RoleRepository
	Profile() ProfileRepository
	Contact() ContactRepository
	Dashboard() DashboardRepository

	// WithTransaction executes fn inside one database transaction; every
	// sub-repository obtained from the passed Repository shares it.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns repository lifecycle (connect, health, shutdown).
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
