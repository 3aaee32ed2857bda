package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/quotakeeper/quotakeeper/internal/domain/usage"
)

// memoryUsageRepository is a usage.Repository with the same conditional
// write semantics as the SQL implementation.
type memoryUsageRepository struct {
	mu      sync.Mutex
	records map[string]*usage.Usage

	writes       int
	findErr      error
	writeErr     error
	beforeReset  func()
	beforeCreate func()
	beforeIncr   func()
}

func newMemoryUsageRepository() *memoryUsageRepository {
	return &memoryUsageRepository{records: make(map[string]*usage.Usage)}
}

func (r *memoryUsageRepository) seed(key string, count int64, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := usage.ReconstructUsage(key, count, expiresAt, expiresAt.Add(-usage.DefaultWindow), expiresAt.Add(-usage.DefaultWindow))
	if err != nil {
		panic(err)
	}
	r.records[key] = u
}

func (r *memoryUsageRepository) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *memoryUsageRepository) FindByKey(ctx context.Context, key string) (*usage.Usage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.records[key], nil
}

func (r *memoryUsageRepository) Create(ctx context.Context, u *usage.Usage) (bool, error) {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return false, r.writeErr
	}
	if _, exists := r.records[u.Key()]; exists {
		return false, nil
	}
	r.records[u.Key()] = u
	r.writes++
	return true, nil
}

func (r *memoryUsageRepository) ResetWindow(ctx context.Context, key string, observed, next time.Time) (bool, error) {
	if r.beforeReset != nil {
		r.beforeReset()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return false, r.writeErr
	}
	cur, ok := r.records[key]
	if !ok || !cur.ExpiresAt().Equal(observed) {
		return false, nil
	}
	reset, err := usage.ReconstructUsage(key, 0, next, cur.CreatedAt(), next.Add(-usage.DefaultWindow))
	if err != nil {
		return false, err
	}
	r.records[key] = reset
	r.writes++
	return true, nil
}

func (r *memoryUsageRepository) Increment(ctx context.Context, key string, expiresAt time.Time, delta int64) (bool, error) {
	if r.beforeIncr != nil {
		r.beforeIncr()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return false, r.writeErr
	}
	cur, ok := r.records[key]
	if !ok || !cur.ExpiresAt().Equal(expiresAt) {
		return false, nil
	}
	next, err := usage.ReconstructUsage(key, cur.Count()+delta, cur.ExpiresAt(), cur.CreatedAt(), cur.UpdatedAt())
	if err != nil {
		return false, err
	}
	r.records[key] = next
	r.writes++
	return true, nil
}
