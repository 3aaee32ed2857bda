package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/infrastructure/ratelimit"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
	"github.com/quotakeeper/quotakeeper/internal/shared/utils"
)

// RateLimiter admits at most limit requests per window for each key
// produced by keyFunc.
type RateLimiter struct {
	limiter ratelimit.Limiter
	name    string
	limit   int
	window  time.Duration
	keyFunc func(c *gin.Context) string
	logger  logger.Interface
}

// NewRateLimiter builds a limiter middleware. A non-positive limit disables
// limiting.
func NewRateLimiter(
	limiter ratelimit.Limiter,
	name string,
	limit int,
	window time.Duration,
	keyFunc func(c *gin.Context) string,
	logger logger.Interface,
) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		name:    name,
		limit:   limit,
		window:  window,
		keyFunc: keyFunc,
		logger:  logger,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		allowed, err := rl.limiter.Allow(c.Request.Context(), rl.keyFunc(c), rl.limit, rl.window)
		if err != nil {
			// fail open
			rl.logger.Warnw("rate limiter unavailable", "limiter", rl.name, "error", err)
			c.Next()
			return
		}

		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
