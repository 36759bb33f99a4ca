package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/i18n"
	"github.com/racedaylabs/platform-service/internal/profiles"
	"github.com/racedaylabs/platform-service/internal/roles"
	"github.com/racedaylabs/platform-service/internal/services"
	"github.com/racedaylabs/platform-service/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	roleService services.RoleService
}

func NewAuthHandler(roleService services.RoleService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		roleService: roleService,
	}
}

// AuthStateResponse is the session view the frontend drives its routing from.
type AuthStateResponse struct {
	UserID         string                `json:"user_id"`
	Resolution     roles.Resolution      `json:"resolution"`
	ProfileStatus  profiles.Status       `json:"profile_status"`
	AvailableRoles []roles.CanonicalRole `json:"available_roles"`
	IntendedRoute  string                `json:"intended_route,omitempty"`
}

// GetAuthState returns the derived auth state of the current session
// @Summary Get auth state
// @Description Canonical roles, permissions, profile status and gate flags for the caller
// @Tags auth
// @Produce json
// @Success 200 {object} AuthStateResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/state [get]
func (h *AuthHandler) GetAuthState(c *gin.Context) {
	state, err := GetAuthStateFromContext(c)
	if err != nil {
		h.handleServiceError(c, apperrors.ErrUnauthenticated)
		return
	}

	c.JSON(http.StatusOK, AuthStateResponse{
		UserID:         state.UserID,
		Resolution:     state.Resolution,
		ProfileStatus:  state.ProfileStatus,
		AvailableRoles: roles.AvailableExternalRoles,
		IntendedRoute:  state.IntendedRoute,
	})
}

// AssignRoles replaces the caller's external roles with their selection
// @Summary Assign roles
// @Description Role-assignment gate submit; accepts external roles only
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.AssignRolesRequest true "Selected roles"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Invalid selection"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /auth/roles [post]
func (h *AuthHandler) AssignRoles(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.handleServiceError(c, apperrors.ErrUnauthenticated)
		return
	}

	var req services.AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid request body", err))
		return
	}

	h.LogRequest(c, "Assigning roles", "user_id", userID, "roles", req.Roles)

	res, err := h.roleService.AssignRoles(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: i18n.T(c.Request.Context(), "roles.assigned"),
		Data:    res,
	})
}
