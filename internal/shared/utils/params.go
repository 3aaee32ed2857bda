package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quotakeeper/quotakeeper/internal/shared/errors"
)

// ParseInt64Param reads a positive integer path parameter.
func ParseInt64Param(c *gin.Context, paramName, entityName string) (int64, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " is required")
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, errors.NewValidationError("invalid " + entityName)
	}
	return value, nil
}
