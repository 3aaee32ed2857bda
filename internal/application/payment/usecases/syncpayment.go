package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/quotakeeper/quotakeeper/internal/application/user/helpers"
	"github.com/quotakeeper/quotakeeper/internal/domain/payment"
	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/shared/errors"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

const defaultAuthorityTimeout = 10 * time.Second

type SyncPaymentCommand struct {
	UserID         uint
	ExternalUserID int64
	// AuthKey is the caller's authorization token; its cache entry is
	// dropped when the entitlement changes.
	AuthKey string
}

// SyncPaymentUseCase pulls the caller's entitlement from the regional
// payment authorities. Authorities are asked one at a time in configured
// order and the first one reporting a paid plan wins.
type SyncPaymentUseCase struct {
	authorities []payment.Authority
	userRepo    user.Repository
	refresher   *helpers.AuthRefresher
	timeout     time.Duration
	logger      logger.Interface
}

func NewSyncPaymentUseCase(
	authorities []payment.Authority,
	userRepo user.Repository,
	refresher *helpers.AuthRefresher,
	timeout time.Duration,
	logger logger.Interface,
) *SyncPaymentUseCase {
	if timeout <= 0 {
		timeout = defaultAuthorityTimeout
	}
	return &SyncPaymentUseCase{
		authorities: authorities,
		userRepo:    userRepo,
		refresher:   refresher,
		timeout:     timeout,
		logger:      logger,
	}
}

// Execute returns the applied entitlement, or nil when no authority reported
// a paid plan. Authority failures are absorbed; validation, store and
// unknown-user errors are returned.
func (uc *SyncPaymentUseCase) Execute(ctx context.Context, cmd SyncPaymentCommand) (*user.PaymentEntitlement, error) {
	if cmd.UserID == 0 {
		return nil, errors.NewValidationError("user ID is required")
	}
	if cmd.ExternalUserID == 0 {
		return nil, errors.NewValidationError("external user ID is required")
	}

	uc.logger.Infow("syncing payment entitlement",
		"user_id", cmd.UserID,
		"external_user_id", cmd.ExternalUserID,
		"authorities", len(uc.authorities))

	winner, source := uc.firstActive(ctx, cmd.ExternalUserID)
	if winner == nil {
		uc.logger.Infow("no authority reported a paid plan", "user_id", cmd.UserID)
		return nil, nil
	}

	current, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to load user for payment sync", "user_id", cmd.UserID, "error", err)
		return nil, errors.NewStoreUnavailableError("failed to load user", err)
	}
	if current == nil {
		return nil, errors.NewNotFoundError("user not found")
	}
	if err := current.ApplyEntitlement(*winner); err != nil {
		uc.logger.Warnw("entitlement rejected", "user_id", cmd.UserID, "authority", source, "error", err)
		return nil, nil
	}
	applied := current.Entitlement()

	err = uc.refresher.UpdateAndInvalidate(ctx, cmd.AuthKey, func(ctx context.Context) error {
		return uc.userRepo.UpdateEntitlement(ctx, cmd.UserID, applied)
	})
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to persist entitlement",
			"user_id", cmd.UserID,
			"authority", source,
			"error", err)
		return nil, errors.NewStoreUnavailableError("failed to save payment entitlement", err)
	}

	uc.logger.Infow("payment entitlement applied",
		"user_id", cmd.UserID,
		"authority", source,
		"plan", applied.Plan)
	return &applied, nil
}

func (uc *SyncPaymentUseCase) firstActive(ctx context.Context, externalUserID int64) (*user.PaymentEntitlement, string) {
	for _, authority := range uc.authorities {
		if ctx.Err() != nil {
			uc.logger.Warnw("payment sync cancelled", "error", ctx.Err())
			return nil, ""
		}

		entitlement, err := uc.query(ctx, authority, externalUserID)
		if err != nil {
			uc.logger.Warnw("payment authority failed, trying next",
				"error", errors.NewAuthorityUnavailableError(authority.Name(), err))
			continue
		}
		if entitlement == nil || !entitlement.IsActive() {
			uc.logger.Debugw("payment authority reported no paid plan", "authority", authority.Name())
			continue
		}
		return entitlement, authority.Name()
	}
	return nil, ""
}

// query isolates one authority call: its own deadline, and a panic inside
// the client counts as a failure of that authority only.
func (uc *SyncPaymentUseCase) query(ctx context.Context, authority payment.Authority, externalUserID int64) (entitlement *user.PaymentEntitlement, err error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			entitlement = nil
			err = fmt.Errorf("authority panicked: %v", r)
		}
	}()

	return authority.FetchEntitlement(ctx, externalUserID)
}
