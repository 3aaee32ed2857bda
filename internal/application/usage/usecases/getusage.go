package usecases

import (
	"context"
	"time"

	"github.com/quotakeeper/quotakeeper/internal/application/usage/dto"
	"github.com/quotakeeper/quotakeeper/internal/domain/usage"
	"github.com/quotakeeper/quotakeeper/internal/shared/biztime"
	"github.com/quotakeeper/quotakeeper/internal/shared/errors"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

// maxGetOrCreateAttempts bounds re-reads after losing a create or reset race.
const maxGetOrCreateAttempts = 3

type GetUsageQuery struct {
	Key   string
	Limit int64
}

// GetUsageUseCase owns the lifecycle of usage windows: first observation
// creates one, an observation at or past expiry opens the next one.
type GetUsageUseCase struct {
	usageRepo usage.Repository
	window    time.Duration
	clock     biztime.Clock
	logger    logger.Interface
}

func NewGetUsageUseCase(
	usageRepo usage.Repository,
	window time.Duration,
	clock biztime.Clock,
	logger logger.Interface,
) *GetUsageUseCase {
	if window <= 0 {
		window = usage.DefaultWindow
	}
	return &GetUsageUseCase{
		usageRepo: usageRepo,
		window:    window,
		clock:     clock.OrSystem(),
		logger:    logger,
	}
}

func (uc *GetUsageUseCase) Execute(ctx context.Context, query GetUsageQuery) (*dto.UsageResponse, error) {
	u, err := uc.GetOrCreate(ctx, query.Key)
	if err != nil {
		return nil, err
	}
	return dto.ToUsageResponse(u, query.Limit), nil
}

// GetOrCreate returns the current window for key, creating or resetting it
// as needed. It performs at most one effective write.
func (uc *GetUsageUseCase) GetOrCreate(ctx context.Context, key string) (*usage.Usage, error) {
	if err := usage.ValidateKey(key); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	for attempt := 0; attempt < maxGetOrCreateAttempts; attempt++ {
		now := uc.clock()

		current, err := uc.usageRepo.FindByKey(ctx, key)
		if err != nil {
			uc.logger.Errorw("failed to load usage", "key", key, "error", err)
			return nil, errors.NewStoreUnavailableError("failed to load usage", err)
		}

		if current == nil {
			fresh, err := usage.NewUsage(key, now, uc.window)
			if err != nil {
				return nil, errors.NewValidationError(err.Error())
			}
			created, err := uc.usageRepo.Create(ctx, fresh)
			if err != nil {
				uc.logger.Errorw("failed to create usage", "key", key, "error", err)
				return nil, errors.NewStoreUnavailableError("failed to create usage", err)
			}
			if created {
				uc.logger.Debugw("usage window opened", "key", key, "expires_at", fresh.ExpiresAt())
				return fresh, nil
			}
			continue
		}

		next, reset := usage.Normalize(current, now, uc.window)
		if !reset {
			return current, nil
		}

		applied, err := uc.usageRepo.ResetWindow(ctx, key, current.ExpiresAt(), next.ExpiresAt())
		if err != nil {
			uc.logger.Errorw("failed to reset usage", "key", key, "error", err)
			return nil, errors.NewStoreUnavailableError("failed to reset usage", err)
		}
		if applied {
			uc.logger.Debugw("usage window reset",
				"key", key,
				"previous_count", current.Count(),
				"expires_at", next.ExpiresAt())
			return next, nil
		}
	}

	uc.logger.Warnw("usage record kept changing under concurrent writers", "key", key)
	return nil, errors.NewStoreUnavailableError("usage record is contended", nil)
}
