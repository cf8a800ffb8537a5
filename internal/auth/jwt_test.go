package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService("test-secret", "comunidades", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "admin@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "comunidades", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", "comunidades", time.Hour)
	other := NewJWTService("other-secret", "comunidades", time.Hour)

	token, err := svc.GenerateToken(uuid.New(), "a@b.co", false)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", "comunidades", -time.Minute)

	token, err := svc.GenerateToken(uuid.New(), "a@b.co", false)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", "comunidades", time.Hour)
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
