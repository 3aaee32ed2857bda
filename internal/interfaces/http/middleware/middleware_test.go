package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/quotakeeper/quotakeeper/internal/domain/user"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserRepository struct {
	mu      sync.Mutex
	users   map[uint]*user.User
	err     error
	delay   time.Duration
	lookups atomic.Int32
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uint]*user.User)}
}

func (r *fakeUserRepository) add(t *testing.T, id uint, externalID int64, plan user.Plan) {
	t.Helper()
	u, err := user.ReconstructUser(id, externalID, fmt.Sprintf("user%d", id), "", user.PaymentEntitlement{Plan: plan}, nil, time.Now(), time.Now())
	require.NoError(t, err)
	r.mu.Lock()
	r.users[id] = u
	r.mu.Unlock()
}

func (r *fakeUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	r.lookups.Add(1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *fakeUserRepository) GetByExternalID(ctx context.Context, externalID int64) (*user.User, error) {
	return nil, nil
}

func (r *fakeUserRepository) UpdateEntitlement(ctx context.Context, id uint, e user.PaymentEntitlement) error {
	return nil
}

func (r *fakeUserRepository) UpdateSettings(ctx context.Context, id uint, s user.Settings) error {
	return nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
