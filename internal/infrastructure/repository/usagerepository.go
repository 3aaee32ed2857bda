package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quotakeeper/quotakeeper/internal/domain/usage"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/persistence/mappers"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/persistence/models"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

// UsageRepository stores usage windows in the usages table. Window resets
// and increments are conditional on the stored expiry so that concurrent
// writers never overwrite a window they did not observe.
type UsageRepository struct {
	db     *gorm.DB
	mapper mappers.UsageMapper
	logger logger.Interface
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *gorm.DB, logger logger.Interface) usage.Repository {
	return &UsageRepository{
		db:     db,
		mapper: mappers.NewUsageMapper(),
		logger: logger,
	}
}

// FindByKey retrieves the usage window of key
func (r *UsageRepository) FindByKey(ctx context.Context, key string) (*usage.Usage, error) {
	var model models.UsageModel
	err := r.db.WithContext(ctx).Where("usage_key = ?", key).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get usage", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Create inserts a new window, leaving an existing row for the key untouched
func (r *UsageRepository) Create(ctx context.Context, u *usage.Usage) (bool, error) {
	model := r.mapper.ToModel(u)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "usage_key"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to create usage", "key", u.Key(), "error", result.Error)
		return false, fmt.Errorf("failed to create usage: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// ResetWindow opens a new window if the stored one is still the observed one
func (r *UsageRepository) ResetWindow(ctx context.Context, key string, observedExpiresAt, newExpiresAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UsageModel{}).
		Where("usage_key = ? AND expires_at = ?", key, observedExpiresAt.UTC()).
		Updates(map[string]any{
			"usage_count": 0,
			"expires_at":  newExpiresAt.UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to reset usage window", "key", key, "error", result.Error)
		return false, fmt.Errorf("failed to reset usage window: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// Increment adds delta to the counter of the window ending at expiresAt
func (r *UsageRepository) Increment(ctx context.Context, key string, expiresAt time.Time, delta int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.UsageModel{}).
		Where("usage_key = ? AND expires_at = ?", key, expiresAt.UTC()).
		Updates(map[string]any{
			"usage_count": gorm.Expr("usage_count + ?", delta),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to increment usage", "key", key, "delta", delta, "error", result.Error)
		return false, fmt.Errorf("failed to increment usage: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}
