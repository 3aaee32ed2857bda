package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/shared/constants"
)

// GetUserID returns the authenticated user's ID set by the auth middleware.
func GetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

func GetExternalID(c *gin.Context) int64 {
	if v, ok := c.Get(constants.ContextKeyExternalID); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

func GetUserPlan(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUserPlan)
}

// GetAuthKey returns the raw authorization token of the request.
func GetAuthKey(c *gin.Context) string {
	return c.GetString(constants.ContextKeyAuthKey)
}

// ClientAddress prefers the address reported by the CDN edge and falls back
// to gin's client IP resolution.
func ClientAddress(c *gin.Context) string {
	if addr := c.GetHeader(constants.HeaderCFConnectingIP); addr != "" {
		return addr
	}
	return c.ClientIP()
}
