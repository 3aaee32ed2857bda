package usecases

import (
	"context"

	"github.com/quotakeeper/quotakeeper/internal/application/payment/dto"
	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/shared/errors"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

// GetPaymentUseCase serves a user's stored entitlement to the other regions.
type GetPaymentUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewGetPaymentUseCase(userRepo user.Repository, logger logger.Interface) *GetPaymentUseCase {
	return &GetPaymentUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (uc *GetPaymentUseCase) Execute(ctx context.Context, externalUserID int64) (*dto.PaymentDTO, error) {
	if externalUserID == 0 {
		return nil, errors.NewValidationError("external user ID is required")
	}

	userEntity, err := uc.userRepo.GetByExternalID(ctx, externalUserID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "external_user_id", externalUserID, "error", err)
		return nil, errors.NewStoreUnavailableError("failed to load user", err)
	}
	if userEntity == nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	return dto.ToPaymentDTO(userEntity.Entitlement()), nil
}
