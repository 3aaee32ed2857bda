package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
	"github.com/quotakeeper/quotakeeper/internal/shared/utils"
)

// RequireAPIKey guards service-to-service endpoints with a static shared
// key carried in header.
func RequireAPIKey(header, key string, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(header)
		if key == "" || provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			log.Warnw("rejected request with invalid api key",
				"path", c.Request.URL.Path,
				"client_ip", utils.ClientAddress(c))
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid api key")
			c.Abort()
			return
		}
		c.Next()
	}
}
