package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/persistence/mappers"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/persistence/models"
	apperrors "github.com/quotakeeper/quotakeeper/internal/shared/errors"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

// UserRepository implements user.Repository on the users table. Writes are
// column-scoped updates, never full-row saves.
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

// GetByID retrieves a user by internal ID
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// GetByExternalID retrieves a user by the identity known to payment authorities
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID int64) (*user.User, error) {
	return r.findOne(ctx, "external_id = ?", externalID)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user", "query", query, "arg", arg, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map user model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map user: %w", err)
	}
	return entity, nil
}

// UpdateEntitlement writes subscription_id, midtrans_id and plan only.
// It returns a not found error when no live user has the given ID.
func (r *UserRepository) UpdateEntitlement(ctx context.Context, id uint, e user.PaymentEntitlement) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{ID: id}).
		Updates(r.mapper.EntitlementColumns(e))
	if result.Error != nil {
		r.logger.Errorw("failed to update user entitlement", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update user entitlement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if err := r.ensureExists(ctx, id); err != nil {
			return err
		}
	}

	r.logger.Infow("user entitlement updated", "id", id, "plan", e.Plan)
	return nil
}

// ensureExists tells a missing row apart from an update that changed no
// values, which MySQL also reports as zero affected rows.
func (r *UserRepository) ensureExists(ctx context.Context, id uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return apperrors.NewNotFoundError("user not found")
	}
	return nil
}

// UpdateSettings replaces the settings column only
func (r *UserRepository) UpdateSettings(ctx context.Context, id uint, s user.Settings) error {
	column, err := r.mapper.SettingsColumn(s)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).
		Model(&models.UserModel{ID: id}).
		Updates(map[string]any{"settings": column}).Error
	if err != nil {
		r.logger.Errorw("failed to update user settings", "id", id, "error", err)
		return fmt.Errorf("failed to update user settings: %w", err)
	}

	return nil
}
