package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/racedaylabs/platform-service/internal/cache"
	"github.com/racedaylabs/platform-service/internal/models"
	"github.com/racedaylabs/platform-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db     *gorm.DB
	helper *cache.Helper
}

func NewDashboardPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.DashboardRepository {
	return &DashboardPostgreSQL{
		db:     db,
		helper: cache.NewHelper(redisClient, cache.DashboardCacheConfig.Prefix),
	}
}

func (d *DashboardPostgreSQL) CountUsers(ctx context.Context) (int64, error) {
	return d.cachedCount(ctx, "users:total", func(query *gorm.DB) *gorm.DB {
		return query.Model(&models.User{})
	})
}

func (d *DashboardPostgreSQL) CountUsersByRole(ctx context.Context, roleName string) (int64, error) {
	key := fmt.Sprintf("users:role:%s", roleName)
	return d.cachedCount(ctx, key, func(query *gorm.DB) *gorm.DB {
		return query.Model(&models.User{}).
			Joins("JOIN user_roles ON user_roles.user_id = users.id").
			Joins("JOIN roles ON roles.id = user_roles.role_id AND roles.deleted_at IS NULL").
			Where("roles.name = ?", roleName).
			Distinct("users.id")
	})
}

func (d *DashboardPostgreSQL) CountProfiles(ctx context.Context) (int64, error) {
	return d.cachedCount(ctx, "profiles:total", func(query *gorm.DB) *gorm.DB {
		return query.Model(&models.Profile{})
	})
}

func (d *DashboardPostgreSQL) CountContactSubmissions(ctx context.Context, sinceDays int) (int64, error) {
	key := fmt.Sprintf("contact:since:%d", sinceDays)
	return d.cachedCount(ctx, key, func(query *gorm.DB) *gorm.DB {
		return query.Model(&models.ContactSubmission{}).
			Where("created_at >= ?", time.Now().AddDate(0, 0, -sinceDays))
	})
}

func (d *DashboardPostgreSQL) CountNewUsers(ctx context.Context, sinceDays int) (int64, error) {
	key := fmt.Sprintf("users:new:%d", sinceDays)
	return d.cachedCount(ctx, key, func(query *gorm.DB) *gorm.DB {
		return query.Model(&models.User{}).
			Where("created_at >= ?", time.Now().AddDate(0, 0, -sinceDays))
	})
}

// cachedCount runs a COUNT query through the short-lived dashboard cache.
func (d *DashboardPostgreSQL) cachedCount(ctx context.Context, key string, build func(*gorm.DB) *gorm.DB) (int64, error) {
	var count int64
	err := d.helper.CacheOrExecute(ctx, key, &count, cache.DashboardCacheConfig.TTL, func() (interface{}, error) {
		var dbCount int64
		if err := build(d.db.WithContext(ctx)).Count(&dbCount).Error; err != nil {
			return nil, fmt.Errorf("dashboard count %s failed: %w", key, err)
		}
		return dbCount, nil
	})
	return count, err
}
