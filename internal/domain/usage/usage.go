// Package usage models the per-identity usage counter and its rolling window.
package usage

import (
	"fmt"
	"time"
)

// DefaultWindow is the length of a usage window when none is configured.
const DefaultWindow = 24 * time.Hour

// Usage is the usage counter for one tracked subject. A subject has at most
// one Usage, identified by its key.
type Usage struct {
	key       string
	count     int64
	expiresAt time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewUsage opens a fresh window for key starting at now.
func NewUsage(key string, now time.Time, window time.Duration) (*Usage, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if window <= 0 {
		return nil, fmt.Errorf("usage window must be positive")
	}
	now = stamp(now)
	return &Usage{
		key:       key,
		count:     0,
		expiresAt: now.Add(window),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUsage rebuilds a Usage from persisted state.
func ReconstructUsage(key string, count int64, expiresAt, createdAt, updatedAt time.Time) (*Usage, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("usage count cannot be negative: %d", count)
	}
	return &Usage{
		key:       key,
		count:     count,
		expiresAt: stamp(expiresAt),
		createdAt: stamp(createdAt),
		updatedAt: stamp(updatedAt),
	}, nil
}

func (u *Usage) Key() string          { return u.key }
func (u *Usage) Count() int64         { return u.count }
func (u *Usage) ExpiresAt() time.Time { return u.expiresAt }
func (u *Usage) CreatedAt() time.Time { return u.createdAt }
func (u *Usage) UpdatedAt() time.Time { return u.updatedAt }

// IsExpired reports whether the window has ended as of now. The boundary
// instant itself counts as expired.
func (u *Usage) IsExpired(now time.Time) bool {
	return !now.Before(u.expiresAt)
}

// Remaining returns how much of limit is left in the window. A non-positive
// limit means unlimited and yields -1.
func (u *Usage) Remaining(limit int64) int64 {
	if limit <= 0 {
		return -1
	}
	if u.count >= limit {
		return 0
	}
	return limit - u.count
}

// Normalize applies lazy expiry: if u's window has ended at now it returns a
// copy with count zero and a window starting at now, and reset=true.
// Otherwise it returns u itself unchanged.
func Normalize(u *Usage, now time.Time, window time.Duration) (normalized *Usage, reset bool) {
	if !u.IsExpired(now) {
		return u, false
	}
	now = stamp(now)
	return &Usage{
		key:       u.key,
		count:     0,
		expiresAt: now.Add(window),
		createdAt: u.createdAt,
		updatedAt: now,
	}, true
}

// stamp normalizes a timestamp to what the store can hold: UTC with
// microsecond precision. Window expiries are compared for equality in
// conditional updates, so in-memory and stored values must agree.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
