package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/interfaces/http/handlers"
)

// PaymentRouteConfig holds dependencies for service-to-service payment routes.
type PaymentRouteConfig struct {
	PaymentHandler *handlers.PaymentHandler
	APIKeyAuth     gin.HandlerFunc
}

// SetupPaymentRoutes exposes stored entitlements to the other regions.
func SetupPaymentRoutes(engine *gin.Engine, cfg *PaymentRouteConfig) {
	users := engine.Group("/api/v1/users")
	users.Use(cfg.APIKeyAuth)
	{
		users.GET("/:externalId/payment", cfg.PaymentHandler.GetPayment)
	}
}
