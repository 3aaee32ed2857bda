package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/quotakeeper/quotakeeper/internal/infrastructure/config"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/migration"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/persistence/models"
	sharedConfig "github.com/quotakeeper/quotakeeper/internal/shared/config"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

const testAPIKey = "lookup-key"

func init() {
	gin.SetMode(gin.TestMode)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testServer struct {
	container *Container
	engine    *gin.Engine
	db        *gorm.DB
	redis     *miniredis.Miniredis
	clock     *testClock
}

func newTestServer(t *testing.T, authorityURL string) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migration.NewAutoMigrateStrategy(logger.NewNopLogger()).Migrate(db))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Server: sharedConfig.ServerConfig{Host: "127.0.0.1", Port: 8080, Mode: "test"},
		Auth: sharedConfig.AuthConfig{
			JWT:          sharedConfig.JWTConfig{Secret: "test-secret", AccessExpMinutes: 60},
			CookieName:   "authorization",
			CacheTTL:     time.Hour,
			APIKey:       testAPIKey,
			APIKeyHeader: "token",
		},
		Usage: sharedConfig.UsageConfig{
			Window: 24 * time.Hour,
			Limits: sharedConfig.UsageLimits{Anonymous: 2, Free: 10, Premium: 100},
		},
		Payment: sharedConfig.PaymentConfig{
			Authorities:      []sharedConfig.PaymentAuthorityConfig{{Name: "primary", BaseURL: authorityURL}},
			SecretHeader:     "token",
			Secret:           testAPIKey,
			AuthorityTimeout: 2 * time.Second,
			SyncRateLimit:    2,
		},
	}

	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	container := NewContainer(db, client, cfg, logger.NewNopLogger(), WithClock(clock.Now))
	require.NoError(t, container.Router().SetupRoutes())

	return &testServer{
		container: container,
		engine:    container.Router().GetEngine(),
		db:        db,
		redis:     mr,
		clock:     clock,
	}
}

func (s *testServer) seedUser(t *testing.T, externalID int64) (uint, string) {
	t.Helper()
	free := "free"
	m := &models.UserModel{
		ExternalID: externalID,
		Username:   "alice",
		Plan:       &free,
		Settings:   datatypes.JSON(`{"theme":"light"}`),
	}
	require.NoError(t, s.db.Create(m).Error)

	token, _, err := s.container.JWTService().Generate(m.ID)
	require.NoError(t, err)
	return m.ID, token
}

func (s *testServer) do(method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type string `json:"type"`
	} `json:"error"`
}

type usageData struct {
	Usage struct {
		Key    string    `json:"key"`
		Usage  int64     `json:"usage"`
		Expire time.Time `json:"expire"`
		Limit  int64     `json:"limit"`
	} `json:"usage"`
}

func decodeUsage(t *testing.T, w *httptest.ResponseRecorder) usageData {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var data usageData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func newAuthorityServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("token") != testAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1")

	w := s.do(http.MethodGet, "/health", "", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUsage_AnonymousWindowLifecycle(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1")
	edge := map[string]string{"CF-Connecting-IP": "203.0.113.9"}

	w := s.do(http.MethodGet, "/api/v1/users/me/usage", "", nil, edge)
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeUsage(t, w)
	assert.Equal(t, "ip:203.0.113.9", first.Usage.Key)
	assert.Equal(t, int64(0), first.Usage.Usage)
	assert.True(t, first.Usage.Expire.Equal(time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)))

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/v1/users/me/usage", "", map[string]any{"amount": 2}, edge).Code)

	w = s.do(http.MethodPost, "/api/v1/users/me/usage", "", map[string]any{"amount": 1}, edge)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	s.clock.Advance(24 * time.Hour)

	w = s.do(http.MethodGet, "/api/v1/users/me/usage", "", nil, edge)
	require.Equal(t, http.StatusOK, w.Code)
	reset := decodeUsage(t, w)
	assert.Equal(t, int64(0), reset.Usage.Usage)
	assert.True(t, reset.Usage.Expire.Equal(time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)))
}

func TestUsage_AuthenticatedUsesUserKeyAndPlanLimit(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1")
	userID, token := s.seedUser(t, 1001)

	w := s.do(http.MethodPost, "/api/v1/users/me/usage", token, map[string]any{"amount": 3}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeUsage(t, w)
	assert.Equal(t, "u:"+strconv.FormatUint(uint64(userID), 10), data.Usage.Key)
	assert.Equal(t, int64(3), data.Usage.Usage)
	assert.Equal(t, int64(10), data.Usage.Limit)
}

func TestSettings_UpdateMergesAndInvalidates(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1")
	_, token := s.seedUser(t, 1001)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/users/me/usage", token, nil, nil).Code)
	require.True(t, s.redis.Exists("auth:"+token))

	w := s.do(http.MethodPatch, "/api/v1/users/me/settings", token,
		map[string]any{"settings": map[string]any{"lang": "id"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var data struct {
		Settings map[string]any `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "light", data.Settings["theme"])
	assert.Equal(t, "id", data.Settings["lang"])
	assert.False(t, s.redis.Exists("auth:"+token))
}

func TestPaymentSync_AppliesEntitlementAndInvalidates(t *testing.T) {
	authority := newAuthorityServer(t, `{"payment":{"subscription_id":"sub_1","plan":"premium"}}`)
	s := newTestServer(t, authority.URL)
	_, token := s.seedUser(t, 1001)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/users/me/usage", token, nil, nil).Code)
	require.True(t, s.redis.Exists("auth:"+token))

	w := s.do(http.MethodPost, "/api/v1/users/me/payment-sync", token, nil, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.False(t, s.redis.Exists("auth:"+token))

	w = s.do(http.MethodGet, "/api/v1/users/1001/payment", "", nil, map[string]string{"token": testAPIKey})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"payment":{"subscription_id":"sub_1","midtrans_id":null,"plan":"premium"}}`, w.Body.String())

	// the next request sees the new plan's limit
	w = s.do(http.MethodGet, "/api/v1/users/me/usage", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(100), decodeUsage(t, w).Usage.Limit)
}

func TestPaymentSync_FromAnotherRegion(t *testing.T) {
	primary := newTestServer(t, "http://127.0.0.1:1")
	primaryID, _ := primary.seedUser(t, 1001)
	premium, sub := "premium", "sub_9"
	require.NoError(t, primary.db.Model(&models.UserModel{ID: primaryID}).
		Updates(map[string]any{"plan": premium, "subscription_id": sub}).Error)

	exposed := httptest.NewServer(primary.engine)
	t.Cleanup(exposed.Close)

	secondary := newTestServer(t, exposed.URL)
	secondaryID, token := secondary.seedUser(t, 1001)

	w := secondary.do(http.MethodPost, "/api/v1/users/me/payment-sync", token, nil, nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var stored models.UserModel
	require.NoError(t, secondary.db.First(&stored, secondaryID).Error)
	require.NotNil(t, stored.Plan)
	assert.Equal(t, "premium", *stored.Plan)
	require.NotNil(t, stored.SubscriptionID)
	assert.Equal(t, "sub_9", *stored.SubscriptionID)
}

func TestPaymentSync_AuthorityDownIsStillAccepted(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1")
	_, token := s.seedUser(t, 1001)

	w := s.do(http.MethodPost, "/api/v1/users/me/payment-sync", token, nil, nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestPaymentSync_RequiresAuthAndIsRateLimited(t *testing.T) {
	authority := newAuthorityServer(t, `{"payment":{"plan":"free"}}`)
	s := newTestServer(t, authority.URL)
	_, token := s.seedUser(t, 1001)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/users/me/payment-sync", "", nil, nil).Code)

	assert.Equal(t, http.StatusAccepted, s.do(http.MethodPost, "/api/v1/users/me/payment-sync", token, nil, nil).Code)
	assert.Equal(t, http.StatusAccepted, s.do(http.MethodPost, "/api/v1/users/me/payment-sync", token, nil, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/v1/users/me/payment-sync", token, nil, nil).Code)
}

func TestPaymentLookup_RequiresAPIKey(t *testing.T) {
	s := newTestServer(t, "http://127.0.0.1:1")
	s.seedUser(t, 1001)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/1001/payment", "", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		s.do(http.MethodGet, "/api/v1/users/1001/payment", "", nil, map[string]string{"token": "nope"}).Code)
	assert.Equal(t, http.StatusNotFound,
		s.do(http.MethodGet, "/api/v1/users/4040/payment", "", nil, map[string]string{"token": testAPIKey}).Code)
}
