package repositories

import (
	"context"

	"github.com/racedaylabs/platform-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// UserFilters drives the admin user list query.
type UserFilters struct {
	Role      *string `json:"role"`   // raw role name to join-filter on
	Search    string  `json:"search"` // matches name or email
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`    // "created_at", "full_name", "email"
	SortOrder string  `json:"sort_order"` // "asc", "desc"
}

// ===== SUB-REPOSITORY INTERFACES =====

// UserRepository owns the local users table. All reads exclude soft-deleted
// rows through the gorm.DeletedAt default scope.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Upsert(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RoleRepository owns role reference rows and user_roles assignments.
type RoleRepository interface {
	// GetRoleNamesForUser returns the raw names assigned to the user.
	GetRoleNamesForUser(ctx context.Context, userID string) ([]string, error)
	// EnsureRole returns the role row with the given name, creating it when
	// missing. Idempotent under the unique name index.
	EnsureRole(ctx context.Context, name string) (*models.Role, error)
	// AssignRoles adds assignments for the named roles, creating reference
	// rows on demand; existing assignments are left alone.
	AssignRoles(ctx context.Context, userID string, names []string) error
	// ReplaceExternalRoles deletes the user's assignments for the roles in
	// externalNames (the full external vocabulary) and inserts newNames.
	// Internal assignments are untouched. Runs in one transaction.
	ReplaceExternalRoles(ctx context.Context, userID string, externalNames, newNames []string) error
}

// ProfileRepository owns the profiles table.
type ProfileRepository interface {
	// GetByUserID returns nil (no error) when the user has no profile.
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert inserts or updates the row keyed by user_id.
	Upsert(ctx context.Context, profile *models.Profile) error
	SoftDelete(ctx context.Context, userID string) error
}

// ContactRepository owns contact_submissions.
type ContactRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
	CountSince(ctx context.Context, since int) (int64, error)
}

// DashboardRepository serves the admin dashboard aggregates.
type DashboardRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, roleName string) (int64, error)
	CountProfiles(ctx context.Context) (int64, error)
	CountContactSubmissions(ctx context.Context, sinceDays int) (int64, error)
	CountNewUsers(ctx context.Context, sinceDays int) (int64, error)
}
