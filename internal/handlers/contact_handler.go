package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/i18n"
	"github.com/racedaylabs/platform-service/internal/services"
	"github.com/racedaylabs/platform-service/internal/utils"
)

type ContactHandler struct {
	BaseHandler
	contactService services.ContactService
}

func NewContactHandler(contactService services.ContactService, logger utils.Logger) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    NewBaseHandler(logger),
		contactService: contactService,
	}
}

// SubmitContact accepts a contact form submission
// @Summary Submit contact form
// @Description Public endpoint; authenticated callers are attributed and rate limited per user instead of per IP
// @Tags contact
// @Accept json
// @Produce json
// @Param request body services.SubmitContactRequest true "Submission"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 429 {object} ErrorResponse "Rate limit exceeded"
// @Failure 502 {object} ErrorResponse "Notification could not be sent"
// @Router /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req services.SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleServiceError(c, apperrors.Wrap(apperrors.CodeValidationError, "invalid request body", err))
		return
	}

	// Anonymous submissions fall back to the forwarded or remote IP.
	userID, _ := GetUserIDFromContext(c)
	meta := services.ContactMeta{
		UserID:       userID,
		ForwardedFor: c.GetHeader("X-Forwarded-For"),
		RemoteIP:     c.ClientIP(),
	}

	h.LogRequest(c, "Contact submission received", "origin", req.Origin, "authenticated", userID != "")

	receipt, err := h.contactService.Submit(c.Request.Context(), &req, meta)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: i18n.T(c.Request.Context(), "contact.received"),
		Data:    receipt,
	})
}
