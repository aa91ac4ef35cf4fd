package services

import (
	"testing"
	"time"

	"github.com/playvault/game-store/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, accessTTL time.Duration) TokenService {
	t.Helper()

	service, err := NewTokenService(accessTTL, 24*time.Hour, "test-issuer", "test-audience", "test-secret-key-with-enough-entropy")
	require.NoError(t, err)
	return service
}

func TestTokenService(t *testing.T) {
	t.Run("GenerateAndValidate", func(t *testing.T) {
		service := newTestTokenService(t, time.Hour)

		accessToken, refreshToken, err := service.GenerateTokens(42, models.RoleStandard)
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.NotEqual(t, accessToken, refreshToken)

		claims, err := service.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, models.RoleStandard, claims.Role)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, claims.TokenID)
		assert.True(t, claims.ExpiresAt.After(time.Now()))

		refreshClaims, err := service.ValidateToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "refresh", refreshClaims.TokenType)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		service := newTestTokenService(t, -time.Minute)

		accessToken, _, err := service.GenerateTokens(42, models.RoleStandard)
		require.NoError(t, err)

		_, err = service.ValidateToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("TamperedToken", func(t *testing.T) {
		service := newTestTokenService(t, time.Hour)

		accessToken, _, err := service.GenerateTokens(42, models.RoleStandard)
		require.NoError(t, err)

		_, err = service.ValidateToken(accessToken + "x")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongSecretRejected", func(t *testing.T) {
		service := newTestTokenService(t, time.Hour)
		other, err := NewTokenService(time.Hour, 24*time.Hour, "test-issuer", "test-audience", "a-completely-different-secret-key")
		require.NoError(t, err)

		accessToken, _, err := service.GenerateTokens(42, models.RoleStandard)
		require.NoError(t, err)

		_, err = other.ValidateToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("RefreshIssuesNewPair", func(t *testing.T) {
		service := newTestTokenService(t, time.Hour)

		_, refreshToken, err := service.GenerateTokens(42, models.RoleAdministrator)
		require.NoError(t, err)

		newAccess, newRefresh, err := service.RefreshToken(refreshToken)
		require.NoError(t, err)

		claims, err := service.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
		assert.Equal(t, models.RoleAdministrator, claims.Role)
		assert.Equal(t, "access", claims.TokenType)
		assert.NotEmpty(t, newRefresh)
	})

	t.Run("AccessTokenCannotRefresh", func(t *testing.T) {
		service := newTestTokenService(t, time.Hour)

		accessToken, _, err := service.GenerateTokens(42, models.RoleStandard)
		require.NoError(t, err)

		_, _, err = service.RefreshToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("EmptySecretRejected", func(t *testing.T) {
		_, err := NewTokenService(time.Hour, 24*time.Hour, "test-issuer", "test-audience", "")
		assert.Error(t, err)
	})
}
