package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/events"
	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/ratelimit"
	"github.com/racedaylabs/platform-service/internal/repositories"
	"github.com/racedaylabs/platform-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// ContactMeta is the per-request caller identity used for rate limiting and
// attribution. UserID is empty for anonymous submissions.
type ContactMeta struct {
	UserID       string
	ForwardedFor string
	RemoteIP     string
}

type ContactReceipt struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ===== SERVICE INTERFACE =====

type ContactService interface {
	// Submit runs the contact pipeline: honeypot, validation, rate limit,
	// support notification, persistence. The notification publish happens
	// before the row is written; a publish failure means nothing is stored.
	Submit(ctx context.Context, req *SubmitContactRequest, meta ContactMeta) (*ContactReceipt, error)
}

// ===== SERVICE IMPLEMENTATION =====

type contactService struct {
	repo         repositories.Repository
	limiter      *ratelimit.Limiter
	publisher    events.EventPublisher
	logger       *slog.Logger
	validator    *validator.Validator
	supportEmail string
	fromEmail    string
}

func NewContactService(repo repositories.Repository, limiter *ratelimit.Limiter, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, supportEmail, fromEmail string) ContactService {
	return &contactService{
		repo:         repo,
		limiter:      limiter,
		publisher:    publisher,
		logger:       logger,
		validator:    v,
		supportEmail: supportEmail,
		fromEmail:    fromEmail,
	}
}

func (s *contactService) Submit(ctx context.Context, req *SubmitContactRequest, meta ContactMeta) (*ContactReceipt, error) {
	// Honeypot first: a filled hidden field is a bot. Fail before counting
	// against the limiter so bots cannot lock out the caller's IP, and keep
	// the error shape identical to a real validation failure.
	if req.Website != "" {
		s.logger.Info("Contact honeypot triggered", "origin", req.Origin)
		return nil, apperrors.New(apperrors.CodeValidationError, "invalid submission")
	}

	if errs := s.validator.ValidateContactSubmit(req); len(errs) > 0 {
		return nil, apperrors.Wrap(apperrors.CodeValidationError, "invalid submission", errs)
	}

	clientKey := ratelimit.ClientKey(meta.UserID, meta.ForwardedFor, meta.RemoteIP)
	result, err := s.limiter.Allow(ctx, clientKey)
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !result.Allowed {
		retryIn := time.Until(result.ResetAt).Round(time.Second)
		return nil, apperrors.New(apperrors.CodeRateLimitExceeded,
			fmt.Sprintf("too many submissions, retry in %s", retryIn))
	}

	origin := req.Origin
	if origin == "" {
		origin = "unknown"
	}

	// The notification publish is the email send from this service's point
	// of view and must succeed before anything is stored.
	err = s.publisher.Publish(ctx, events.TypeContactEmailNotification, events.ContactEmailEvent{
		To:      s.supportEmail,
		From:    s.fromEmail,
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Origin:  origin,
	})
	if err != nil {
		s.logger.Error("Contact notification publish failed", "error", err)
		return nil, apperrors.Wrap(apperrors.CodeEmailFailed, err.Error(), err)
	}

	submission := &models.ContactSubmission{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		Origin:    origin,
		ClientKey: clientKey,
	}
	if meta.UserID != "" {
		submission.SubmittedBy = &meta.UserID
	}

	if err := s.repo.Contact().Create(ctx, submission); err != nil {
		// The notification already went out at this point.
		s.logger.Error("Contact submission not persisted after notification", "submission_id", submission.ID, "error", err)
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	s.logger.Info("Contact submission accepted", "submission_id", submission.ID, "origin", origin)
	return &ContactReceipt{ID: submission.ID, SubmittedAt: submission.CreatedAt}, nil
}
