package helpers

import (
	"context"

	"github.com/quotakeeper/quotakeeper/internal/infrastructure/cache"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
)

// AuthRefresher pairs a user record write with dropping the cached
// authorization derived from that record.
type AuthRefresher struct {
	authCache cache.AuthCache
	logger    logger.Interface
}

// NewAuthRefresher creates a new AuthRefresher instance
func NewAuthRefresher(authCache cache.AuthCache, logger logger.Interface) *AuthRefresher {
	return &AuthRefresher{
		authCache: authCache,
		logger:    logger,
	}
}

// UpdateAndInvalidate runs write and, only once it has succeeded, deletes
// the auth cache entry of authKey. A write error is returned as-is and
// nothing is invalidated. An invalidation error is logged and swallowed:
// the record is already persisted and the entry expires on its own.
func (h *AuthRefresher) UpdateAndInvalidate(ctx context.Context, authKey string, write func(ctx context.Context) error) error {
	if err := write(ctx); err != nil {
		return err
	}

	if authKey == "" {
		h.logger.Debugw("no auth key to invalidate")
		return nil
	}

	if err := h.authCache.Invalidate(ctx, authKey); err != nil {
		h.logger.Warnw("failed to invalidate auth cache entry", "error", err)
	}
	return nil
}
