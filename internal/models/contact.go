package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactSubmission is one accepted contact-form message. Rejected submissions
// (honeypot, rate limited, failed notification) are never persisted.
type ContactSubmission struct {
	ID      string  `json:"id" gorm:"primaryKey;size:36"`
	Name    *string `json:"name" gorm:"size:100"`
	Email   *string `json:"email" gorm:"size:255"`
	Message string  `json:"message" gorm:"type:text;not null"`
	Origin  string  `json:"origin" gorm:"size:100;not null;default:unknown"`

	// SubmittedBy is the authenticated user id when present.
	SubmittedBy *string `json:"submitted_by" gorm:"size:255"`
	// ClientKey is the rate-limit key the submission was counted against.
	ClientKey string `json:"-" gorm:"size:255"`

	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}
