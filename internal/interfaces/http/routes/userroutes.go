package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/interfaces/http/handlers"
	"github.com/quotakeeper/quotakeeper/internal/interfaces/http/middleware"
)

// UserRouteConfig holds dependencies for the caller-scoped /users/me routes.
type UserRouteConfig struct {
	UsageHandler    *handlers.UsageHandler
	SettingsHandler *handlers.SettingsHandler
	PaymentHandler  *handlers.PaymentHandler
	AuthMiddleware  *middleware.AuthMiddleware
	SyncRateLimiter *middleware.RateLimiter
}

// SetupUserRoutes configures routes acting on the current caller.
func SetupUserRoutes(engine *gin.Engine, cfg *UserRouteConfig) {
	me := engine.Group("/api/v1/users/me")
	{
		// Usage is tracked for anonymous callers too, keyed by address.
		me.GET("/usage", cfg.AuthMiddleware.OptionalAuth(), cfg.UsageHandler.GetUsage)
		me.POST("/usage", cfg.AuthMiddleware.OptionalAuth(), cfg.UsageHandler.RecordUsage)

		me.PATCH("/settings", cfg.AuthMiddleware.RequireAuth(), cfg.SettingsHandler.UpdateSettings)
		me.POST("/payment-sync",
			cfg.AuthMiddleware.RequireAuth(),
			cfg.SyncRateLimiter.Limit(),
			cfg.PaymentHandler.SyncPayment)
	}
}
