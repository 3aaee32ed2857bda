package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotakeeper/quotakeeper/internal/shared/biztime"
)

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret", 60)

	token, exp, err := svc.Generate(42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestJWTService_GenerateRequiresUser(t *testing.T) {
	_, _, err := NewJWTService("test-secret", 60).Generate(0)
	assert.Error(t, err)
}

func TestJWTService_VerifyRejects(t *testing.T) {
	svc := NewJWTService("test-secret", 60)
	token, _, err := svc.Generate(7)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTService("other-secret", 60).Verify(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := biztime.FixedClock(time.Now().Add(2 * time.Hour))
		_, err := NewJWTService("test-secret", 60).WithClock(later).Verify(token)
		assert.Error(t, err)
	})

	t.Run("unsigned algorithm", func(t *testing.T) {
		claims := &Claims{UserID: 7, TokenType: TokenTypeAccess}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(unsigned)
		assert.Error(t, err)
	})

	t.Run("wrong token type", func(t *testing.T) {
		claims := &Claims{UserID: 7, TokenType: "refresh"}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.Verify(signed)
		assert.Error(t, err)
	})
}
