package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/quotakeeper/quotakeeper/internal/domain/user"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/auth"
	"github.com/quotakeeper/quotakeeper/internal/infrastructure/cache"
	"github.com/quotakeeper/quotakeeper/internal/shared/constants"
	"github.com/quotakeeper/quotakeeper/internal/shared/errors"
	"github.com/quotakeeper/quotakeeper/internal/shared/logger"
	"github.com/quotakeeper/quotakeeper/internal/shared/utils"
)

// AuthMiddleware resolves the caller from a bearer token or cookie. The
// resolved identity is cached under auth:<token> until it expires or the
// user's entitlement or settings change.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   user.Repository
	authCache  cache.AuthCache
	cookieName string
	loads      singleflight.Group
	logger     logger.Interface
}

func NewAuthMiddleware(
	jwtService *auth.JWTService,
	userRepo user.Repository,
	authCache cache.AuthCache,
	cookieName string,
	logger logger.Interface,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
		authCache:  authCache,
		cookieName: cookieName,
		logger:     logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		snapshot, err := m.resolve(c.Request.Context(), token)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		setIdentity(c, token, snapshot)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and lets
// the request through anonymously otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		snapshot, err := m.resolve(c.Request.Context(), token)
		if err == nil {
			setIdentity(c, token, snapshot)
		} else if errors.IsStoreUnavailableError(err) {
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if m.cookieName != "" {
		if token, err := c.Cookie(m.cookieName); err == nil && token != "" {
			return token
		}
	}

	authHeader := c.GetHeader(constants.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != constants.AuthorizationSchemeBearer {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (m *AuthMiddleware) resolve(ctx context.Context, token string) (*cache.AuthSnapshot, error) {
	claims, err := m.jwtService.Verify(token)
	if err != nil {
		m.logger.Debugw("failed to verify token", "error", err)
		return nil, errors.NewUnauthorizedError("invalid or expired token")
	}

	snapshot, err := m.authCache.Get(ctx, token)
	if err != nil {
		m.logger.Warnw("auth cache unavailable, loading user from store", "error", err)
	}
	if snapshot != nil && snapshot.UserID == claims.UserID {
		return snapshot, nil
	}

	// Concurrent requests carrying the same token share one store read,
	// which must not be cut short by whichever request started it.
	v, err, _ := m.loads.Do(token, func() (interface{}, error) {
		return m.load(context.WithoutCancel(ctx), token, claims.UserID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*cache.AuthSnapshot), nil
}

func (m *AuthMiddleware) load(ctx context.Context, token string, userID uint) (*cache.AuthSnapshot, error) {
	u, err := m.userRepo.GetByID(ctx, userID)
	if err != nil {
		m.logger.Errorw("failed to load user for token", "user_id", userID, "error", err)
		return nil, errors.NewStoreUnavailableError("failed to load user", err)
	}
	if u == nil {
		return nil, errors.NewUnauthorizedError("user no longer exists")
	}

	snapshot := &cache.AuthSnapshot{
		UserID:     u.ID(),
		ExternalID: u.ExternalID(),
		Username:   u.Username(),
		Plan:       string(u.Plan()),
	}
	if err := m.authCache.Set(ctx, token, snapshot); err != nil {
		m.logger.Warnw("failed to cache auth snapshot", "user_id", userID, "error", err)
	}
	return snapshot, nil
}

func setIdentity(c *gin.Context, token string, snapshot *cache.AuthSnapshot) {
	c.Set(constants.ContextKeyUserID, snapshot.UserID)
	c.Set(constants.ContextKeyExternalID, snapshot.ExternalID)
	c.Set(constants.ContextKeyUserPlan, snapshot.Plan)
	c.Set(constants.ContextKeyAuthKey, token)
}

// IdentityKey returns a stable per-caller key for rate limiting.
func IdentityKey(c *gin.Context) string {
	if id, ok := utils.GetUserID(c); ok {
		return "u:" + strconv.FormatUint(uint64(id), 10)
	}
	return "ip:" + utils.ClientAddress(c)
}
