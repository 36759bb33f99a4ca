package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/cache"
	"github.com/racedaylabs/platform-service/internal/events"
	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/profiles"
	"github.com/racedaylabs/platform-service/internal/repositories"
	"github.com/racedaylabs/platform-service/internal/roles"
	"github.com/racedaylabs/platform-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

type ProfileService interface {
	// Get returns the caller's profile with its completion state. A user with
	// no profile row gets a nil Profile and HasProfile false, not NOT_FOUND.
	Get(ctx context.Context, userID string) (*ProfileResponse, error)

	// Upsert writes the caller's profile and returns the recomputed state.
	// Clears the profile-completion gate when the write completes the profile.
	Upsert(ctx context.Context, userID string, req *UpsertProfileRequest) (*ProfileResponse, error)

	// StatusFor derives the completion state for an already-resolved role mix.
	// Used by the auth layer when building the session projection.
	StatusFor(ctx context.Context, userID string, res roles.Resolution) (profiles.Status, error)
}

// ===== SERVICE IMPLEMENTATION =====

type profileService struct {
	repo      repositories.Repository
	roleSvc   RoleService
	authCache *cache.AuthStateCache
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, roleSvc RoleService, authCache *cache.AuthStateCache, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		roleSvc:   roleSvc,
		authCache: authCache,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*ProfileResponse, error) {
	res, err := s.roleSvc.ResolveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return &ProfileResponse{
		Profile: profile,
		Status:  profiles.ComputeStatus(profile, res.RequiredCategories, res.IsInternal),
	}, nil
}

func (s *profileService) Upsert(ctx context.Context, userID string, req *UpsertProfileRequest) (*ProfileResponse, error) {
	if errs := s.validator.ValidateProfileUpsert(req); len(errs) > 0 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid profile data", errs)
	}

	profile, err := s.toModel(userID, req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid profile data", err)
	}

	if err := s.repo.Profile().Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	res, err := s.roleSvc.ResolveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := profiles.ComputeStatus(profile, res.RequiredCategories, res.IsInternal)

	// Every cached session projection of this user is now stale.
	if err := s.authCache.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate auth state cache", "user_id", userID, "error", err)
	}

	if err := s.publisher.Publish(ctx, events.TypeProfileUpserted, events.ProfileUpsertedEvent{
		UserID:     userID,
		IsComplete: status.IsComplete,
	}); err != nil {
		s.logger.Warn("Failed to publish profile upserted event", "user_id", userID, "error", err)
	}

	s.logger.Info("Profile upserted", "user_id", userID, "is_complete", status.IsComplete)
	return &ProfileResponse{Profile: profile, Status: status}, nil
}

func (s *profileService) StatusFor(ctx context.Context, userID string, res roles.Resolution) (profiles.Status, error) {
	profile, err := s.repo.Profile().GetByUserID(ctx, userID)
	if err != nil {
		return profiles.Status{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return profiles.ComputeStatus(profile, res.RequiredCategories, res.IsInternal), nil
}

func (s *profileService) toModel(userID string, req *UpsertProfileRequest) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:                userID,
		Phone:                 req.Phone,
		City:                  req.City,
		State:                 req.State,
		PostalCode:            req.PostalCode,
		Country:               req.Country,
		Gender:                req.Gender,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		BloodType:             req.BloodType,
		ShirtSize:             req.ShirtSize,
		WeightKg:              req.WeightKg,
		HeightCm:              req.HeightCm,
		Bio:                   req.Bio,
	}

	if req.DateOfBirth != nil {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("invalid date of birth: %w", err)
		}
		dob := datatypes.Date(parsed)
		profile.DateOfBirth = &dob
	}

	if req.Geolocation != nil {
		raw, err := json.Marshal(req.Geolocation)
		if err != nil {
			return nil, fmt.Errorf("invalid geolocation: %w", err)
		}
		profile.Geolocation = raw
	}

	return profile, nil
}
