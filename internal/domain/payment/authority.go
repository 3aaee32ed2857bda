// Package payment describes the regional payment authorities consulted when
// reconciling a user's entitlement.
package payment

import (
	"context"

	"github.com/quotakeeper/quotakeeper/internal/domain/user"
)

// Authority is one regional source of truth for entitlements. Any error it
// returns is treated as "no answer from this authority".
type Authority interface {
	// Name identifies the authority in logs.
	Name() string

	// FetchEntitlement reports what the authority knows about externalUserID.
	// A nil entitlement with a nil error means the authority has no record.
	FetchEntitlement(ctx context.Context, externalUserID int64) (*user.PaymentEntitlement, error)
}
