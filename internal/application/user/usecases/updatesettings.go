package usecases

import (
	"context"

	"github.com/quotakeeper/quotakeeper/internal/application/user/dto"
	"github.com/quotakeeper/quotakeeper/internal/application/user/helpers"
	domainUser "github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/shared/errors"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

type UpdateSettingsCommand struct {
	UserID   uint
	AuthKey  string
	Settings map[string]any
}

// UpdateSettingsUseCase merges a settings patch into the user's document.
type UpdateSettingsUseCase struct {
	userRepo  domainUser.Repository
	refresher *helpers.AuthRefresher
	logger    logger.Interface
}

func NewUpdateSettingsUseCase(
	userRepo domainUser.Repository,
	refresher *helpers.AuthRefresher,
	logger logger.Interface,
) *UpdateSettingsUseCase {
	return &UpdateSettingsUseCase{
		userRepo:  userRepo,
		refresher: refresher,
		logger:    logger,
	}
}

func (uc *UpdateSettingsUseCase) Execute(ctx context.Context, cmd UpdateSettingsCommand) (*dto.SettingsResponse, error) {
	if cmd.UserID == 0 {
		return nil, errors.NewValidationError("user ID is required")
	}
	if cmd.Settings == nil {
		return nil, errors.NewValidationError("settings are required")
	}

	userEntity, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewStoreUnavailableError("failed to load user", err)
	}
	if userEntity == nil {
		uc.logger.Warnw("user not found", "user_id", cmd.UserID)
		return nil, errors.NewNotFoundError("user not found")
	}

	merged := userEntity.MergeSettings(domainUser.Settings(cmd.Settings))

	err = uc.refresher.UpdateAndInvalidate(ctx, cmd.AuthKey, func(ctx context.Context) error {
		return uc.userRepo.UpdateSettings(ctx, cmd.UserID, merged)
	})
	if err != nil {
		uc.logger.Errorw("failed to save settings", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewStoreUnavailableError("failed to save settings", err)
	}

	uc.logger.Infow("settings updated", "user_id", cmd.UserID, "keys", len(cmd.Settings))
	return &dto.SettingsResponse{Settings: merged}, nil
}
