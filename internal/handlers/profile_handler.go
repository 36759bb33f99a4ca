package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/i18n"
	"github.com/racedaylabs/platform-service/internal/services"
	"github.com/racedaylabs/platform-service/internal/utils"
)

type ProfileHandler struct {
	BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(profileService services.ProfileService, logger utils.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    NewBaseHandler(logger),
		profileService: profileService,
	}
}

// GetProfile returns the caller's profile with its completion state
// @Summary Get own profile
// @Description Profile record plus derived completion status; users without a profile get a nil record, not 404
// @Tags profile
// @Produce json
// @Success 200 {object} services.ProfileResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.handleServiceError(c, apperrors.ErrUnauthenticated)
		return
	}

	resp, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpsertProfile creates or replaces the caller's profile
// @Summary Upsert own profile
// @Description Writes the profile and returns the recomputed completion state; clears the completion gate when satisfied
// @Tags profile
// @Accept json
// @Produce json
// @Param request body services.UpsertProfileRequest true "Profile fields"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Invalid profile data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /profile [put]
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.handleServiceError(c, apperrors.ErrUnauthenticated)
		return
	}

	var req services.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid request body", err))
		return
	}

	h.LogRequest(c, "Upserting profile", "user_id", userID)

	resp, err := h.profileService.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: i18n.T(c.Request.Context(), "profile.saved"),
		Data:    resp,
	})
}
