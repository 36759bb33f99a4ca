package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/racedaylabs/platform-service/internal/profiles"
	"github.com/racedaylabs/platform-service/internal/repositories"
	"github.com/racedaylabs/platform-service/internal/roles"
)

// ===== RESPONSE DTOs =====

type AdminDashboardResponse struct {
	Overview AdminDashboardOverview `json:"overview"`
	ByRole   map[string]int64       `json:"by_role"`
}

type AdminDashboardOverview struct {
	TotalUsers         int64 `json:"total_users"`
	TotalProfiles      int64 `json:"total_profiles"`
	NewUsers30d        int64 `json:"new_users_30d"`
	ContactMessages30d int64 `json:"contact_messages_30d"`
}

// UserDashboardResponse is the landing view for a gated, fully-onboarded user.
type UserDashboardResponse struct {
	Resolution     roles.Resolution      `json:"resolution"`
	ProfileStatus  profiles.Status       `json:"profile_status"`
	AvailableRoles []roles.CanonicalRole `json:"available_roles"`
	Permissions    roles.PermissionSet   `json:"permissions"`
}

// ===== SERVICE INTERFACE =====

type DashboardService interface {
	GetAdminDashboard(ctx context.Context) (*AdminDashboardResponse, error)
	GetUserDashboard(ctx context.Context, userID string) (*UserDashboardResponse, error)
}

// ===== SERVICE IMPLEMENTATION =====

type dashboardService struct {
	repo       repositories.Repository
	roleSvc    RoleService
	profileSvc ProfileService
	logger     *slog.Logger
}

func NewDashboardService(repo repositories.Repository, roleSvc RoleService, profileSvc ProfileService, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:       repo,
		roleSvc:    roleSvc,
		profileSvc: profileSvc,
		logger:     logger,
	}
}

func (s *dashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardResponse, error) {
	dash := s.repo.Dashboard()

	totalUsers, err := dash.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	totalProfiles, err := dash.CountProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	newUsers, err := dash.CountNewUsers(ctx, 30)
	if err != nil {
		return nil, fmt.Errorf("failed to count new users: %w", err)
	}

	contactMessages, err := dash.CountContactSubmissions(ctx, 30)
	if err != nil {
		return nil, fmt.Errorf("failed to count contact submissions: %w", err)
	}

	byRole := make(map[string]int64, len(roles.AllCanonicalRoles))
	for _, role := range roles.AllCanonicalRoles {
		count, err := dash.CountUsersByRole(ctx, role.RawName())
		if err != nil {
			return nil, fmt.Errorf("failed to count users for role %s: %w", role, err)
		}
		byRole[string(role)] = count
	}

	return &AdminDashboardResponse{
		Overview: AdminDashboardOverview{
			TotalUsers:         totalUsers,
			TotalProfiles:      totalProfiles,
			NewUsers30d:        newUsers,
			ContactMessages30d: contactMessages,
		},
		ByRole: byRole,
	}, nil
}

func (s *dashboardService) GetUserDashboard(ctx context.Context, userID string) (*UserDashboardResponse, error) {
	res, err := s.roleSvc.ResolveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	status, err := s.profileSvc.StatusFor(ctx, userID, res)
	if err != nil {
		return nil, err
	}

	return &UserDashboardResponse{
		Resolution:     res,
		ProfileStatus:  status,
		AvailableRoles: roles.AvailableExternalRoles,
		Permissions:    res.Permissions,
	}, nil
}
