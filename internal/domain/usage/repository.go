package usage

import (
	"context"
	"time"
)

// Repository persists Usage records. Implementations must keep at most one
// record per key.
type Repository interface {
	// FindByKey returns nil, nil when no record exists.
	FindByKey(ctx context.Context, key string) (*Usage, error)

	// Create inserts u unless a record with the same key exists. created is
	// false when another writer got there first.
	Create(ctx context.Context, u *Usage) (created bool, err error)

	// ResetWindow zeroes the counter and moves the expiry to newExpiresAt,
	// but only if the stored expiry still equals observedExpiresAt.
	// applied is false when a concurrent reset already moved the window.
	ResetWindow(ctx context.Context, key string, observedExpiresAt, newExpiresAt time.Time) (applied bool, err error)

	// Increment adds delta to the counter of the window ending at expiresAt.
	// applied is false when the stored window is a different one.
	Increment(ctx context.Context, key string, expiresAt time.Time, delta int64) (applied bool, err error)
}
