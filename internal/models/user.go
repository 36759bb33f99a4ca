package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the local identity record. Authentication lives in Casdoor; this row
// mirrors the identity for joins to profiles and role assignments.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;size:255"`
	FullName string `json:"full_name" gorm:"not null;size:100"`
	Email    string `json:"email" gorm:"uniqueIndex;not null;size:255"`

	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Populated via the user_roles join when preloaded.
	Roles []Role `json:"roles,omitempty" gorm:"many2many:user_roles;"`
}

func (User) TableName() string {
	return "users"
}

// Role is static reference data: one row per raw role name. Rows are created on
// demand when a role is assigned for the first time.
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:50"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Role) TableName() string {
	return "roles"
}

// UserRole is one role assignment. Revoking deletes the row outright; a
// soft-deleted assignment would keep occupying idx_user_role and block the
// role from ever being re-added, so the join table does not soft delete.
// Replacing the external subset deletes and reinserts in one transaction.
type UserRole struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_role"`
	RoleID uint   `json:"role_id" gorm:"not null;uniqueIndex:idx_user_role"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role Role `json:"-" gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
