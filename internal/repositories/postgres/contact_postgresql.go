package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/repositories"
)

type ContactPostgreSQL struct {
	db *gorm.DB
}

func NewContactPostgreSQL(db *gorm.DB) repositories.ContactRepository {
	return &ContactPostgreSQL{db: db}
}

func (c *ContactPostgreSQL) Create(ctx context.Context, submission *models.ContactSubmission) error {
	if err := c.db.WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}
	return nil
}

func (c *ContactPostgreSQL) CountSince(ctx context.Context, sinceDays int) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.ContactSubmission{}).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -sinceDays)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count contact submissions: %w", err)
	}
	return count, nil
}
