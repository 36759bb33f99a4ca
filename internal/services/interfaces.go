package services

import (
	"context"

	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/profiles"
	"github.com/racedaylabs/platform-service/internal/roles"
	"github.com/racedaylabs/platform-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type UpsertProfileRequest = validator.ProfileUpsertRequest
type SubmitContactRequest = validator.ContactSubmitRequest
type CreateUserRequest = validator.AdminCreateUserRequest
type AssignRolesRequest = validator.AssignRolesRequest
type ReplaceRolesRequest = validator.AdminReplaceRolesRequest
type ListUsersRequest = validator.AdminListUsersRequest

// UserResponse is one admin user-list row: the identity record plus the
// derived role state the console renders badges from.
type UserResponse struct {
	*models.User
	RoleNames  []string         `json:"role_names"`
	Resolution roles.Resolution `json:"resolution"`
}

type UserListResponse struct {
	Users     []*UserResponse `json:"users"`
	Total     int64           `json:"total"`
	Page      int             `json:"page"`
	Size      int             `json:"size"`
	PageCount int             `json:"page_count"`
}

// ProfileResponse pairs the stored record with its derived completion state.
type ProfileResponse struct {
	Profile *models.Profile `json:"profile"`
	Status  profiles.Status `json:"status"`
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Role() RoleService
	Profile() ProfileService
	UserAdmin() UserAdminService
	Dashboard() DashboardService
	Contact() ContactService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
