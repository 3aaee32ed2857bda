package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	paymentUsecases "github.com/quotakeeper/quotakeeper/internal/application/payment/usecases"
	usageUsecases "github.com/quotakeeper/quotakeeper/internal/application/usage/usecases"
	"github.com/quotakeeper/quotakeeper/internal/application/user/helpers"
	userUsecases "github.com/quotakeeper/quotakeeper/internal/application/user/usecases"
	"github.com/quotakeeper/quotakeeper/internal/domain/usage"
	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/auth"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/cache"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/config"
	infraPayment "github.com/quotakeeper/quotakeeper/internal/infrastructure/payment"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/ratelimit"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/repository"
	"github.com/quotakeeper/quotakeeper/internal/interfaces/http/handlers"
	"github.com/quotakeeper/quotakeeper/internal/interfaces/http/middleware"
	"github.com/quotakeeper/quotakeeper/internal/shared/biztime"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases and
// handlers of the service and wires them together.
type Container struct {
	db    *gorm.DB
	redis *redis.Client
	cfg   *config.Config
	log   logger.Interface
	clock biztime.Clock

	// Repositories
	usageRepo usage.Repository
	userRepo  user.Repository

	// Infrastructure services
	jwtSvc    *auth.JWTService
	authCache cache.AuthCache
	refresher *helpers.AuthRefresher

	// Use cases
	getUsageUC       *usageUsecases.GetUsageUseCase
	recordUsageUC    *usageUsecases.RecordUsageUseCase
	syncPaymentUC    *paymentUsecases.SyncPaymentUseCase
	getPaymentUC     *paymentUsecases.GetPaymentUseCase
	updateSettingsUC *userUsecases.UpdateSettingsUseCase

	router *Router
}

// ContainerOption customizes a Container before wiring.
type ContainerOption func(*Container)

// WithClock pins the clock used for usage windows.
func WithClock(clock biztime.Clock) ContainerOption {
	return func(c *Container) { c.clock = clock }
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface, opts ...ContainerOption) *Container {
	c := &Container{
		db:    db,
		redis: redisClient,
		cfg:   cfg,
		log:   log,
		clock: biztime.SystemClock,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.initInfrastructure()
	c.initUseCases()
	c.initRouter()

	return c
}

func (c *Container) initInfrastructure() {
	c.usageRepo = repository.NewUsageRepository(c.db, c.log.Named("usage_repository"))
	c.userRepo = repository.NewUserRepository(c.db, c.log.Named("user_repository"))

	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes)
	c.authCache = cache.NewRedisAuthCache(c.redis, c.cfg.Auth.CacheTTL, c.log.Named("auth_cache"))
	c.refresher = helpers.NewAuthRefresher(c.authCache, c.log.Named("auth_refresher"))
}

func (c *Container) initUseCases() {
	c.getUsageUC = usageUsecases.NewGetUsageUseCase(c.usageRepo, c.cfg.Usage.Window, c.clock, c.log.Named("usage"))
	c.recordUsageUC = usageUsecases.NewRecordUsageUseCase(c.getUsageUC, c.usageRepo, c.log.Named("usage"))

	authorities := infraPayment.NewAuthoritiesFromConfig(c.cfg.Payment, &http.Client{}, c.log.Named("payment_authority"))
	c.syncPaymentUC = paymentUsecases.NewSyncPaymentUseCase(
		authorities,
		c.userRepo,
		c.refresher,
		c.cfg.Payment.AuthorityTimeout,
		c.log.Named("payment_sync"),
	)
	c.getPaymentUC = paymentUsecases.NewGetPaymentUseCase(c.userRepo, c.log.Named("payment"))
	c.updateSettingsUC = userUsecases.NewUpdateSettingsUseCase(c.userRepo, c.refresher, c.log.Named("settings"))
}

func (c *Container) initRouter() {
	authMiddleware := middleware.NewAuthMiddleware(
		c.jwtSvc,
		c.userRepo,
		c.authCache,
		c.cfg.Auth.CookieName,
		c.log.Named("auth"),
	)
	syncLimiter := middleware.NewRateLimiter(
		ratelimit.NewRedisLimiter(c.redis, "payment_sync"),
		"payment_sync",
		c.cfg.Payment.SyncRateLimit,
		syncRateWindow,
		middleware.IdentityKey,
		c.log.Named("rate_limiter"),
	)

	checks := map[string]handlers.Pinger{
		"database": handlers.PingerFunc(func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		"redis": handlers.PingerFunc(func(ctx context.Context) error {
			return c.redis.Ping(ctx).Err()
		}),
	}

	c.router = NewRouter(&RouterDeps{
		Engine:          gin.New(),
		Config:          c.cfg,
		Logger:          c.log,
		AuthMiddleware:  authMiddleware,
		SyncRateLimiter: syncLimiter,
		UsageHandler:    handlers.NewUsageHandler(c.getUsageUC, c.recordUsageUC, c.cfg.Usage.Limits, c.log.Named("usage_handler")),
		PaymentHandler:  handlers.NewPaymentHandler(c.syncPaymentUC, c.getPaymentUC, c.log.Named("payment_handler")),
		SettingsHandler: handlers.NewSettingsHandler(c.updateSettingsUC, c.log.Named("settings_handler")),
		HealthHandler:   handlers.NewHealthHandler(checks, c.log.Named("health")),
	})
}

// Router returns the configured HTTP router.
func (c *Container) Router() *Router {
	return c.router
}

// JWTService exposes the token issuer for operator tooling.
func (c *Container) JWTService() *auth.JWTService {
	return c.jwtSvc
}
