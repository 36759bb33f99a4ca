package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/repositories"
)

type RolePostgreSQL struct {
	db *gorm.DB
}

func NewRolePostgreSQL(db *gorm.DB) repositories.RoleRepository {
	return &RolePostgreSQL{db: db}
}

// GetRoleNamesForUser returns the raw role names assigned to the user.
func (r *RolePostgreSQL) GetRoleNamesForUser(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id AND roles.deleted_at IS NULL").
		Where("user_roles.user_id = ?", userID).
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get role names for user: %w", err)
	}
	return names, nil
}

// EnsureRole returns the role row for a name, creating it when missing. The
// OnConflict clause makes concurrent creates of the same name idempotent under
// the unique name index.
func (r *RolePostgreSQL) EnsureRole(ctx context.Context, name string) (*models.Role, error) {
	role := models.Role{Name: name}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&role).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure role %s: %w", name, err)
	}

	// DoNothing leaves the id unset when the row already existed.
	if role.ID == 0 {
		if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
			return nil, fmt.Errorf("failed to load role %s: %w", name, err)
		}
	}
	return &role, nil
}

// AssignRoles adds assignments for the named roles, creating reference rows on
// demand. Existing assignments are kept (conflict on user+role is ignored).
func (r *RolePostgreSQL) AssignRoles(ctx context.Context, userID string, names []string) error {
	for _, name := range names {
		role, err := r.EnsureRole(ctx, name)
		if err != nil {
			return err
		}

		assignment := models.UserRole{UserID: userID, RoleID: role.ID}
		err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
			DoNothing: true,
		}).Create(&assignment).Error
		if err != nil {
			return fmt.Errorf("failed to assign role %s: %w", name, err)
		}
	}
	return nil
}

// ReplaceExternalRoles deletes the user's assignments for every role in
// externalNames and inserts newNames, all in one transaction. Assignments to
// roles outside externalNames (the internal ones) survive. The delete is a
// hard delete: user_roles rows carry no DeletedAt, so the insert that follows
// never collides with a tombstone on idx_user_role.
func (r *RolePostgreSQL) ReplaceExternalRoles(ctx context.Context, userID string, externalNames, newNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &RolePostgreSQL{db: tx}

		if len(externalNames) > 0 {
			err := tx.
				Where("user_id = ? AND role_id IN (?)",
					userID,
					tx.Model(&models.Role{}).Select("id").Where("name IN ?", externalNames),
				).
				Delete(&models.UserRole{}).Error
			if err != nil {
				return fmt.Errorf("failed to clear external roles: %w", err)
			}
		}

		return txRepo.AssignRoles(ctx, userID, newNames)
	})
}
