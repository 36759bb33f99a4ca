package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/services"
	"github.com/racedaylabs/platform-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetAdminDashboard returns aggregate platform metrics
// @Summary Admin dashboard
// @Description User, profile and contact-submission aggregates plus per-role counts
// @Tags admin
// @Produce json
// @Success 200 {object} services.AdminDashboardResponse
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/dashboard [get]
func (h *DashboardHandler) GetAdminDashboard(c *gin.Context) {
	resp, err := h.dashboardService.GetAdminDashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMyDashboard returns the caller's landing view
// @Summary User dashboard
// @Description Per-role landing data; only reachable once both onboarding gates have cleared
// @Tags me
// @Produce json
// @Success 200 {object} services.UserDashboardResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Gated"
// @Router /me/dashboard [get]
func (h *DashboardHandler) GetMyDashboard(c *gin.Context) {
	userID, err := GetUserIDFromContext(c)
	if err != nil {
		h.handleServiceError(c, apperrors.ErrUnauthenticated)
		return
	}

	resp, err := h.dashboardService.GetUserDashboard(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
