package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/i18n"
	"github.com/racedaylabs/platform-service/internal/utils"
	"github.com/racedaylabs/platform-service/internal/validator"
)

// BaseHandler carries the shared handler dependencies and the service-error
// translation every handler uses.
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs the start of a handler with request correlation fields.
func (h BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	fields := append([]any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString("request_id"),
	}, args...)
	h.logger.Info(msg, fields...)
}

func (h BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	fields := append([]any{
		"error", err,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString("request_id"),
	}, args...)
	h.logger.Error(msg, fields...)
}

// ErrorResponse is the JSON error envelope. Message is localized; Details
// carries field errors or extra context depending on the code.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps mutation results with a localized confirmation.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var statusByCode = map[apperrors.Code]int{
	apperrors.CodeUnauthenticated:   http.StatusUnauthorized,
	apperrors.CodeForbidden:         http.StatusForbidden,
	apperrors.CodeInvalidInput:      http.StatusBadRequest,
	apperrors.CodeValidationError:   http.StatusBadRequest,
	apperrors.CodeNotFound:          http.StatusNotFound,
	apperrors.CodeCannotDeleteSelf:  http.StatusConflict,
	apperrors.CodeRateLimitExceeded: http.StatusTooManyRequests,
	apperrors.CodeEmailFailed:       http.StatusBadGateway,
	apperrors.CodeServerError:       http.StatusInternalServerError,
}

var messageKeyByCode = map[apperrors.Code]string{
	apperrors.CodeUnauthenticated:   "error.unauthenticated",
	apperrors.CodeForbidden:         "error.forbidden",
	apperrors.CodeInvalidInput:      "error.invalid_input",
	apperrors.CodeValidationError:   "error.validation_error",
	apperrors.CodeNotFound:          "error.not_found",
	apperrors.CodeCannotDeleteSelf:  "error.cannot_delete_self",
	apperrors.CodeRateLimitExceeded: "error.rate_limit_exceeded",
	apperrors.CodeEmailFailed:       "error.email_failed",
	apperrors.CodeServerError:       "error.server_error",
}

// handleServiceError translates a service error into the JSON envelope.
// Unrecognized errors are masked as SERVER_ERROR: the cause is logged, never
// sent to the client.
func (h BaseHandler) handleServiceError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	resp := ErrorResponse{
		Code:    string(code),
		Message: i18n.T(c.Request.Context(), messageKeyByCode[code]),
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		resp.Details = fieldErrors
	}

	var appErr *apperrors.AppError
	if resp.Details == nil && errors.As(err, &appErr) &&
		appErr.Code != apperrors.CodeServerError && appErr.Message != "" {
		resp.Details = appErr.Message
	}

	if status == http.StatusInternalServerError {
		h.LogError(c, err, "Request failed")
	}

	c.JSON(status, resp)
}
