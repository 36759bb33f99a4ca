package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/racedaylabs/platform-service/internal/apperrors"
	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/repositories"
	"github.com/racedaylabs/platform-service/internal/roles"
	"github.com/racedaylabs/platform-service/internal/validator"
)

const defaultPageSize = 20

// ===== SERVICE INTERFACE =====

type UserAdminService interface {
	// List returns a page of users with per-row derived role state. When
	// filtering by an internal role, rows whose resolution carries no internal
	// role are dropped even if a stale assignment row matched the join.
	List(ctx context.Context, req *ListUsersRequest) (*UserListResponse, error)

	Create(ctx context.Context, req *CreateUserRequest) (*UserResponse, error)

	// Delete soft-deletes a user. Admins cannot delete their own account; the
	// check happens before any repository call.
	Delete(ctx context.Context, targetID, actorID string) error

	// Export renders the filtered user list as an xlsx workbook.
	Export(ctx context.Context, req *ListUsersRequest) ([]byte, error)
}

// ===== SERVICE IMPLEMENTATION =====

type userAdminService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserAdminService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) UserAdminService {
	return &userAdminService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *userAdminService) List(ctx context.Context, req *ListUsersRequest) (*UserListResponse, error) {
	if errs := s.validator.ValidateAdminListUsers(req); len(errs) > 0 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid list parameters", errs)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 {
		size = defaultPageSize
	}

	users, total, err := s.repo.User().List(ctx, repositories.UserFilters{
		Role:      req.Role,
		Search:    req.Search,
		Limit:     size,
		Offset:    (page - 1) * size,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	rows := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		row := s.toResponse(user)

		// A role filter naming an internal role must not surface users whose
		// derived state lost that role (e.g. the assignment row references an
		// unmapped name). The join already filtered; this re-checks the
		// derived side.
		if req.Role != nil && isInternalRawName(*req.Role) && !row.Resolution.IsInternal {
			total--
			continue
		}

		rows = append(rows, row)
	}

	pageCount := int((total + int64(size) - 1) / int64(size))
	if pageCount < 1 {
		pageCount = 1
	}

	return &UserListResponse{
		Users:     rows,
		Total:     total,
		Page:      page,
		Size:      size,
		PageCount: pageCount,
	}, nil
}

func (s *userAdminService) Create(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	if errs := s.validator.ValidateAdminCreateUser(req); len(errs) > 0 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid user data", errs)
	}

	exists, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "a user with this email already exists")
	}

	user := &models.User{
		ID:        req.ID,
		FullName:  strings.TrimSpace(req.FullName),
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, user); err != nil {
			return err
		}
		if len(req.Roles) > 0 {
			return tx.Role().AssignRoles(ctx, user.ID, req.Roles)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created by admin", "user_id", user.ID, "roles", req.Roles)

	created, err := s.repo.User().GetByID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	roleNames, err := s.repo.Role().GetRoleNamesForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role names: %w", err)
	}

	return &UserResponse{
		User:       created,
		RoleNames:  roleNames,
		Resolution: roles.Resolve(roleNames),
	}, nil
}

func (s *userAdminService) Delete(ctx context.Context, targetID, actorID string) error {
	// Checked before touching the repository: self-deletion never reaches it.
	if targetID == actorID {
		return apperrors.New(apperrors.CodeCannotDeleteSelf, "cannot delete your own account")
	}

	if err := s.repo.User().SoftDelete(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.CodeNotFound, "user not found", err)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("User deleted by admin", "user_id", targetID, "actor_id", actorID)
	return nil
}

func (s *userAdminService) Export(ctx context.Context, req *ListUsersRequest) ([]byte, error) {
	// Export honors the same filters as the list view but ignores pagination.
	exportReq := *req
	exportReq.Page = 1
	exportReq.PageSize = 100

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Full Name", "Email", "Roles", "Internal", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := 2
	for {
		page, err := s.List(ctx, &exportReq)
		if err != nil {
			return nil, err
		}

		for _, user := range page.Users {
			values := []interface{}{
				user.ID,
				user.FullName,
				user.Email,
				strings.Join(user.RoleNames, ", "),
				user.Resolution.IsInternal,
				user.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, fmt.Errorf("failed to write row: %w", err)
				}
			}
			row++
		}

		if exportReq.Page >= page.PageCount {
			break
		}
		exportReq.Page++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("User list exported", "rows", row-2)
	return buf.Bytes(), nil
}

// ===== HELPER FUNCTIONS =====

func (s *userAdminService) toResponse(user *models.User) *UserResponse {
	roleNames := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roleNames = append(roleNames, r.Name)
	}

	return &UserResponse{
		User:       user,
		RoleNames:  roleNames,
		Resolution: roles.Resolve(roleNames),
	}
}

func isInternalRawName(raw string) bool {
	res := roles.Resolve([]string{raw})
	return !res.NeedsRoleAssignment && res.IsInternal
}
