package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/quotakeeper/quotakeeper/internal/application/usage/dto"
	"github.com/quotakeeper/quotakeeper/internal/domain/usage"
	"github.com/quotakeeper/quotakeeper/internal/shared/errors"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

type RecordUsageCommand struct {
	Key    string
	Amount int64
	// Limit caps the window; zero means unlimited.
	Limit int64
}

// RecordUsageUseCase consumes quota from the caller's current window.
type RecordUsageUseCase struct {
	tracker   *GetUsageUseCase
	usageRepo usage.Repository
	logger    logger.Interface
}

func NewRecordUsageUseCase(tracker *GetUsageUseCase, usageRepo usage.Repository, logger logger.Interface) *RecordUsageUseCase {
	return &RecordUsageUseCase{
		tracker:   tracker,
		usageRepo: usageRepo,
		logger:    logger,
	}
}

func (uc *RecordUsageUseCase) Execute(ctx context.Context, cmd RecordUsageCommand) (*dto.UsageResponse, error) {
	if cmd.Amount <= 0 {
		return nil, errors.NewValidationError("amount must be positive")
	}

	// One retry covers a window that rolled over between the read and the
	// increment.
	for attempt := 0; attempt < 2; attempt++ {
		current, err := uc.tracker.GetOrCreate(ctx, cmd.Key)
		if err != nil {
			return nil, err
		}

		if cmd.Limit > 0 && current.Count()+cmd.Amount > cmd.Limit {
			uc.logger.Infow("usage quota exceeded",
				"key", cmd.Key,
				"count", current.Count(),
				"amount", cmd.Amount,
				"limit", cmd.Limit)
			return nil, errors.NewQuotaExceededError("usage quota exceeded",
				fmt.Sprintf("%d of %d used, resets at %s",
					current.Count(), cmd.Limit, current.ExpiresAt().Format(time.RFC3339)))
		}

		applied, err := uc.usageRepo.Increment(ctx, cmd.Key, current.ExpiresAt(), cmd.Amount)
		if err != nil {
			uc.logger.Errorw("failed to record usage", "key", cmd.Key, "error", err)
			return nil, errors.NewStoreUnavailableError("failed to record usage", err)
		}
		if !applied {
			continue
		}

		updated, err := uc.usageRepo.FindByKey(ctx, cmd.Key)
		if err != nil {
			uc.logger.Errorw("failed to reload usage", "key", cmd.Key, "error", err)
			return nil, errors.NewStoreUnavailableError("failed to load usage", err)
		}
		if updated == nil {
			return nil, errors.NewStoreUnavailableError("usage record disappeared", nil)
		}

		uc.logger.Infow("usage recorded", "key", cmd.Key, "amount", cmd.Amount, "count", updated.Count())
		return dto.ToUsageResponse(updated, cmd.Limit), nil
	}

	uc.logger.Warnw("usage window changed while recording", "key", cmd.Key)
	return nil, errors.NewStoreUnavailableError("usage window changed concurrently", nil)
}
