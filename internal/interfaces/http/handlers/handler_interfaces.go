package handlers

import (
	"context"

	paymentdto "github.com/quotakeeper/quotakeeper/internal/application/payment/dto"
	paymentusecases "github.com/quotakeeper/quotakeeper/internal/application/payment/usecases"
	usagedto "github.com/quotakeeper/quotakeeper/internal/application/usage/dto"
	usageusecases "github.com/quotakeeper/quotakeeper/internal/application/usage/usecases"
	userdto "github.com/quotakeeper/quotakeeper/internal/application/user/dto"
	userusecases "github.com/quotakeeper/quotakeeper/internal/application/user/usecases"
	"github.com/quotakeeper/quotakeeper/internal/domain/user"
)

// Use case interfaces for the HTTP handlers

type getUsageUseCase interface {
	Execute(ctx context.Context, query usageusecases.GetUsageQuery) (*usagedto.UsageResponse, error)
}

type recordUsageUseCase interface {
	Execute(ctx context.Context, cmd usageusecases.RecordUsageCommand) (*usagedto.UsageResponse, error)
}

type syncPaymentUseCase interface {
	Execute(ctx context.Context, cmd paymentusecases.SyncPaymentCommand) (*user.PaymentEntitlement, error)
}

type getPaymentUseCase interface {
	Execute(ctx context.Context, externalUserID int64) (*paymentdto.PaymentDTO, error)
}

type updateSettingsUseCase interface {
	Execute(ctx context.Context, cmd userusecases.UpdateSettingsCommand) (*userdto.SettingsResponse, error)
}
