package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasehub-backend/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager(testSecret, "leasehub", time.Hour, 24*time.Hour)

	t.Run("Access token round trip", func(t *testing.T) {
		token, err := tm.GenerateAccessToken(7, "t@leasehub.test", domain.UserRoleTenant)
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, int32(7), claims.UserID)
		assert.Equal(t, domain.UserRoleTenant, claims.Role)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("Wrong token type", func(t *testing.T) {
		token, err := tm.GenerateRefreshToken(7, "t@leasehub.test", domain.UserRoleTenant)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("Expired", func(t *testing.T) {
		past := NewTokenManager(testSecret, "leasehub", time.Minute, time.Minute).(*tokenManager)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.GenerateAccessToken(7, "t@leasehub.test", domain.UserRoleTenant)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Foreign secret", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", "leasehub", time.Hour, time.Hour)
		token, err := other.GenerateAccessToken(7, "t@leasehub.test", domain.UserRoleTenant)
		require.NoError(t, err)

		_, err = tm.ValidateToken(token, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-jwt", TokenTypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
