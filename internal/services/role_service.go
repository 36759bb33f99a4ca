package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/cache"
	"github.com/racedaylabs/platform-service/internal/events"
	"github.com/racedaylabs/platform-service/internal/repositories"
	"github.com/racedaylabs/platform-service/internal/roles"
	"github.com/racedaylabs/platform-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

type RoleService interface {
	// ResolveForUser loads the user's raw role names and derives the canonical
	// role state from them.
	ResolveForUser(ctx context.Context, userID string) (roles.Resolution, error)

	// AssignRoles replaces the caller's external roles with their selection.
	// Internal roles are untouched. Clears the role-assignment gate.
	AssignRoles(ctx context.Context, userID string, req *AssignRolesRequest) (roles.Resolution, error)

	// ReplaceExternalRoles is the admin variant operating on another user.
	ReplaceExternalRoles(ctx context.Context, targetID string, req *ReplaceRolesRequest) (roles.Resolution, error)
}

// ===== SERVICE IMPLEMENTATION =====

type roleService struct {
	repo      repositories.Repository
	authCache *cache.AuthStateCache
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewRoleService(repo repositories.Repository, authCache *cache.AuthStateCache, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) RoleService {
	return &roleService{
		repo:      repo,
		authCache: authCache,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *roleService) ResolveForUser(ctx context.Context, userID string) (roles.Resolution, error) {
	rawNames, err := s.repo.Role().GetRoleNamesForUser(ctx, userID)
	if err != nil {
		return roles.Resolution{}, fmt.Errorf("failed to load role names: %w", err)
	}

	res := roles.Resolve(rawNames)

	// One warning per resolution, not one per unknown name.
	if len(res.UnmappedNames) > 0 {
		s.logger.Warn("Unmapped role names, falling back to default external role",
			"user_id", userID,
			"unmapped", res.UnmappedNames)
	}

	return res, nil
}

func (s *roleService) AssignRoles(ctx context.Context, userID string, req *AssignRolesRequest) (roles.Resolution, error) {
	if errs := s.validator.ValidateAssignRoles(req); len(errs) > 0 {
		return roles.Resolution{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid role selection", errs)
	}

	return s.replaceRoles(ctx, userID, req.Roles)
}

func (s *roleService) ReplaceExternalRoles(ctx context.Context, targetID string, req *ReplaceRolesRequest) (roles.Resolution, error) {
	if errs := s.validator.ValidateAdminReplaceRoles(req); len(errs) > 0 {
		return roles.Resolution{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid role selection", errs)
	}

	if _, err := s.repo.User().GetByID(ctx, targetID); err != nil {
		return roles.Resolution{}, apperrors.Wrap(apperrors.CodeNotFound, "user not found", err)
	}

	return s.replaceRoles(ctx, targetID, req.Roles)
}

func (s *roleService) replaceRoles(ctx context.Context, userID string, newNames []string) (roles.Resolution, error) {
	// The delete scope is the whole external vocabulary, so roles the user
	// deselected are removed while internal assignments survive.
	if err := s.repo.Role().ReplaceExternalRoles(ctx, userID, roles.ExternalRawNames(), newNames); err != nil {
		return roles.Resolution{}, fmt.Errorf("failed to replace roles: %w", err)
	}

	res, err := s.ResolveForUser(ctx, userID)
	if err != nil {
		return roles.Resolution{}, err
	}

	// Every cached session projection of this user is now stale.
	if err := s.authCache.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate auth state cache", "user_id", userID, "error", err)
	}

	if err := s.publisher.Publish(ctx, events.TypeRolesReplaced, events.RolesReplacedEvent{
		UserID: userID,
		Roles:  newNames,
	}); err != nil {
		s.logger.Warn("Failed to publish roles replaced event", "user_id", userID, "error", err)
	}

	s.logger.Info("External roles replaced", "user_id", userID, "roles", newNames)
	return res, nil
}
