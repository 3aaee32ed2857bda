package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/infrastructure/config"
	"github.com/quotakeeper/quotakeeper/internal/interfaces/http/handlers"
	"github.com/quotakeeper/quotakeeper/internal/interfaces/http/middleware"
	"github.com/quotakeeper/quotakeeper/internal/interfaces/http/routes"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

const syncRateWindow = time.Minute

// RouterDeps are the components the router mounts.
type RouterDeps struct {
	Engine          *gin.Engine
	Config          *config.Config
	Logger          logger.Interface
	AuthMiddleware  *middleware.AuthMiddleware
	SyncRateLimiter *middleware.RateLimiter
	UsageHandler    *handlers.UsageHandler
	PaymentHandler  *handlers.PaymentHandler
	SettingsHandler *handlers.SettingsHandler
	HealthHandler   *handlers.HealthHandler
}

// Router represents the HTTP router configuration
type Router struct {
	deps *RouterDeps
}

func NewRouter(deps *RouterDeps) *Router {
	return &Router{deps: deps}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() error {
	engine := r.deps.Engine
	if err := engine.SetTrustedProxies(r.deps.Config.Server.TrustedProxies); err != nil {
		return err
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.CustomLogger(r.deps.Logger.Named("http")))
	engine.Use(middleware.Recovery(r.deps.Logger.Named("recovery")))

	engine.GET("/health", r.deps.HealthHandler.Health)

	routes.SetupUserRoutes(engine, &routes.UserRouteConfig{
		UsageHandler:    r.deps.UsageHandler,
		SettingsHandler: r.deps.SettingsHandler,
		PaymentHandler:  r.deps.PaymentHandler,
		AuthMiddleware:  r.deps.AuthMiddleware,
		SyncRateLimiter: r.deps.SyncRateLimiter,
	})

	routes.SetupPaymentRoutes(engine, &routes.PaymentRouteConfig{
		PaymentHandler: r.deps.PaymentHandler,
		APIKeyAuth: middleware.RequireAPIKey(
			r.deps.Config.Auth.APIKeyHeader,
			r.deps.Config.Auth.APIKey,
			r.deps.Logger.Named("api_key"),
		),
	})

	return nil
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.deps.Engine
}
