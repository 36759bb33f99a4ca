package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/i18n"
	"github.com/racedaylabs/platform-service/internal/services"
	"github.com/racedaylabs/platform-service/internal/utils"
)

type AdminUserHandler struct {
	BaseHandler
	userAdminService services.UserAdminService
	roleService      services.RoleService
}

func NewAdminUserHandler(userAdminService services.UserAdminService, roleService services.RoleService, logger utils.Logger) *AdminUserHandler {
	return &AdminUserHandler{
		BaseHandler:      NewBaseHandler(logger),
		userAdminService: userAdminService,
		roleService:      roleService,
	}
}

// ListUsers lists users with filtering, sorting and pagination
// @Summary List users
// @Description Paginated user list with per-row derived role state
// @Tags admin
// @Produce json
// @Param role query string false "Filter by raw role name"
// @Param search query string false "Match against name or email"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Param sort_by query string false "Sort column (created_at, updated_at, full_name, email, id)"
// @Param sort_order query string false "Sort direction (asc, desc)"
// @Success 200 {object} services.UserListResponse
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (h *AdminUserHandler) ListUsers(c *gin.Context) {
	var req services.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.handleServiceError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid query parameters", err))
		return
	}

	resp, err := h.userAdminService.List(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateUser creates a user from the admin console
// @Summary Create user
// @Description Creates the identity row and optional role assignments in one transaction
// @Tags admin
// @Accept json
// @Produce json
// @Param request body services.CreateUserRequest true "User data"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Invalid user data"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users [post]
func (h *AdminUserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid request body", err))
		return
	}

	h.LogRequest(c, "Creating user", "email", req.Email, "roles", req.Roles)

	created, err := h.userAdminService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: i18n.T(c.Request.Context(), "admin.user_created"),
		Data:    created,
	})
}

// DeleteUser soft-deletes a user
// @Summary Delete user
// @Description Soft delete; deleting the own account is rejected before touching the store
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 409 {object} ErrorResponse "Cannot delete own account"
// @Router /admin/users/{id} [delete]
func (h *AdminUserHandler) DeleteUser(c *gin.Context) {
	targetID := c.Param("id")

	actorID, err := GetUserIDFromContext(c)
	if err != nil {
		h.handleServiceError(c, apperrors.ErrUnauthenticated)
		return
	}

	h.LogRequest(c, "Deleting user", "target_id", targetID, "actor_id", actorID)

	if err := h.userAdminService.Delete(c.Request.Context(), targetID, actorID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: i18n.T(c.Request.Context(), "admin.user_deleted"),
	})
}

// ExportUsers downloads the filtered user list as an xlsx workbook
// @Summary Export users
// @Description Same filters as the list view, rendered as a spreadsheet
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param role query string false "Filter by raw role name"
// @Param search query string false "Match against name or email"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /admin/users/export [get]
func (h *AdminUserHandler) ExportUsers(c *gin.Context) {
	var req services.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.handleServiceError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid query parameters", err))
		return
	}

	h.LogRequest(c, "Exporting users")

	data, err := h.userAdminService.Export(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ReplaceUserRoles replaces a user's external roles
// @Summary Replace user roles
// @Description Admin variant of role assignment; internal roles on the target are never touched
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body services.ReplaceRolesRequest true "New external roles"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Invalid selection"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /admin/users/{id}/roles [put]
func (h *AdminUserHandler) ReplaceUserRoles(c *gin.Context) {
	targetID := c.Param("id")

	var req services.ReplaceRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid request body", err))
		return
	}

	h.LogRequest(c, "Replacing user roles", "target_id", targetID, "roles", req.Roles)

	res, err := h.roleService.ReplaceExternalRoles(c.Request.Context(), targetID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: i18n.T(c.Request.Context(), "admin.roles_updated"),
		Data:    res,
	})
}
