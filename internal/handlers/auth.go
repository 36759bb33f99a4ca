package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/cache"
	"github.com/racedaylabs/platform-service/internal/config"
	"github.com/racedaylabs/platform-service/internal/i18n"
	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/repositories"
	"github.com/racedaylabs/platform-service/internal/roles"
	"github.com/racedaylabs/platform-service/internal/services"
	"github.com/racedaylabs/platform-service/internal/utils"
)

// CasdoorAuthMiddleware provides authentication using the Casdoor SDK and
// builds the per-session derived auth state: token claims identify the user,
// role resolution and profile status are computed once and cached until a role
// or profile change invalidates every session of that user.
type CasdoorAuthMiddleware struct {
	client     *casdoorsdk.Client
	userRepo   repositories.UserRepository
	roleSvc    services.RoleService
	profileSvc services.ProfileService
	authCache  *cache.AuthStateCache
	logger     utils.Logger
	config     config.CasdoorConfig
}

func NewCasdoorAuthMiddleware(
	cfg config.CasdoorConfig,
	userRepo repositories.UserRepository,
	roleSvc services.RoleService,
	profileSvc services.ProfileService,
	authCache *cache.AuthStateCache,
	logger utils.Logger,
) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Application,
		cfg.Organization,
	)

	return &CasdoorAuthMiddleware{
		client:     client,
		userRepo:   userRepo,
		roleSvc:    roleSvc,
		profileSvc: profileSvc,
		authCache:  authCache,
		logger:     logger,
		config:     cfg,
	}
}

// AuthMiddleware returns a Gin middleware function for Casdoor authentication
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cam.authenticate(c); err != nil {
			cam.unauthorized(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware attaches user info when a valid token is present and
// continues anonymously otherwise. Used by the public contact endpoint so
// authenticated submissions are attributed and rate limited per user.
func (cam *CasdoorAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			_ = cam.authenticate(c)
		}
		c.Next()
	}
}

func (cam *CasdoorAuthMiddleware) authenticate(c *gin.Context) error {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return fmt.Errorf("authorization header missing")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return fmt.Errorf("invalid authorization header format")
	}
	token := tokenParts[1]

	claims, err := cam.client.ParseJwtToken(token)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	ctx := c.Request.Context()
	user, err := cam.extractUserFromClaims(ctx, claims)
	if err != nil {
		return fmt.Errorf("failed to extract user info: %w", err)
	}

	sessionID := sessionIDFromToken(token)
	state, err := cam.loadAuthState(ctx, user.ID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to build auth state: %w", err)
	}

	c.Set("user_id", user.ID)
	c.Set("user", user)
	c.Set("session_id", sessionID)
	c.Set("auth_state", state)

	return nil
}

// loadAuthState returns the cached session projection, computing and caching it
// on a miss. Role replacement and profile upsert drop the cached entries, so a
// hit is always current.
func (cam *CasdoorAuthMiddleware) loadAuthState(ctx context.Context, userID, sessionID string) (*cache.AuthState, error) {
	state, err := cam.authCache.Get(ctx, userID, sessionID)
	if err == nil {
		return state, nil
	}
	if err != cache.ErrCacheNotFound && err != cache.ErrCacheNotAvailable {
		cam.logger.Warn("Auth state cache read failed", "user_id", userID, "error", err)
	}

	res, err := cam.roleSvc.ResolveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	status, err := cam.profileSvc.StatusFor(ctx, userID, res)
	if err != nil {
		return nil, err
	}

	state = &cache.AuthState{
		UserID:        userID,
		Resolution:    res,
		ProfileStatus: status,
	}
	if err := cam.authCache.Set(ctx, sessionID, state); err != nil {
		cam.logger.Warn("Auth state cache write failed", "user_id", userID, "error", err)
	}

	return state, nil
}

// extractUserFromClaims resolves the local identity row for the token, creating
// the mirror row on the first request of a new account.
func (cam *CasdoorAuthMiddleware) extractUserFromClaims(ctx context.Context, claims *casdoorsdk.Claims) (*models.User, error) {
	userID := claims.Id
	if userID == "" {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	user, err := cam.userRepo.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}

	user = &models.User{
		ID:            userID,
		FullName:      claims.User.DisplayName,
		Email:         claims.User.Email,
		EmailVerified: true,
	}
	if claims.User.Avatar != "" {
		avatar := claims.User.Avatar
		user.AvatarURL = &avatar
	}

	if err := cam.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user from claims: %w", err)
	}

	cam.logger.Info("Local user created from token claims", "user_id", userID)
	return user, nil
}

// sessionIDFromToken derives a stable session identifier from the bearer token
// so every request of one sign-in hits the same cache entry. The token itself
// is never stored.
func sessionIDFromToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}

// RequirePermission blocks requests whose derived permission set fails the
// check. Used for the admin surface (canAccessAdminArea, canManageUsers).
func (cam *CasdoorAuthMiddleware) RequirePermission(check func(roles.PermissionSet) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := GetAuthStateFromContext(c)
		if err != nil {
			cam.unauthorized(c, err)
			return
		}

		if !check(state.Resolution.Permissions) {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Code:    string(apperrors.CodeForbidden),
				Message: i18n.T(c.Request.Context(), "error.forbidden"),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RoleAssignmentGate blocks non-internal users who have not yet chosen a role.
// The role-assignment, profile and auth-state routes stay outside this gate so
// the user can resolve it.
func (cam *CasdoorAuthMiddleware) RoleAssignmentGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := GetAuthStateFromContext(c)
		if err != nil {
			cam.unauthorized(c, err)
			return
		}

		if !state.Resolution.IsInternal && state.Resolution.NeedsRoleAssignment {
			cam.blockWithGate(c, state, "gate.role_assignment_required", gin.H{
				"available_roles": roles.AvailableExternalRoles,
			})
			return
		}

		c.Next()
	}
}

// ProfileCompletionGate blocks external users whose profile is missing required
// fields for their role mix.
func (cam *CasdoorAuthMiddleware) ProfileCompletionGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := GetAuthStateFromContext(c)
		if err != nil {
			cam.unauthorized(c, err)
			return
		}

		if state.ProfileStatus.MustCompleteProfile {
			cam.blockWithGate(c, state, "gate.profile_incomplete", gin.H{
				"missing_categories": state.ProfileStatus.MissingCategories,
			})
			return
		}

		c.Next()
	}
}

// blockWithGate rejects a gated request. The first gated route of the session
// is recorded with the cached state and echoed on every later rejection; it is
// not re-captured while the gate episode lasts.
func (cam *CasdoorAuthMiddleware) blockWithGate(c *gin.Context, state *cache.AuthState, messageKey string, details gin.H) {
	ctx := c.Request.Context()

	if state.IntendedRoute == "" {
		state.IntendedRoute = c.Request.URL.Path
		if sessionID := c.GetString("session_id"); sessionID != "" {
			if err := cam.authCache.Set(ctx, sessionID, state); err != nil {
				cam.logger.Warn("Failed to record intended route", "user_id", state.UserID, "error", err)
			}
		}
	}

	details["intended_route"] = state.IntendedRoute
	c.Header("X-Intended-Route", state.IntendedRoute)

	c.JSON(http.StatusForbidden, ErrorResponse{
		Code:    string(apperrors.CodeForbidden),
		Message: i18n.T(ctx, messageKey),
		Details: details,
	})
	c.Abort()
}

func (cam *CasdoorAuthMiddleware) unauthorized(c *gin.Context, err error) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Code:    string(apperrors.CodeUnauthenticated),
		Message: i18n.T(c.Request.Context(), "error.unauthenticated"),
		Details: err.Error(),
	})
	c.Abort()
}

// ===== CONTEXT HELPERS =====

// GetUserFromContext extracts the local user row from the Gin context.
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}

// GetUserIDFromContext extracts the authenticated user id from the Gin context.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}

// GetAuthStateFromContext extracts the session auth-state projection.
func GetAuthStateFromContext(c *gin.Context) (*cache.AuthState, error) {
	state, exists := c.Get("auth_state")
	if !exists {
		return nil, fmt.Errorf("auth state not found in context")
	}

	authState, ok := state.(*cache.AuthState)
	if !ok {
		return nil, fmt.Errorf("invalid auth state type in context")
	}

	return authState, nil
}
