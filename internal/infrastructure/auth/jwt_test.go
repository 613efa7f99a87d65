package auth

import (
	"testing"
	"time"

	"github.com/akrmotors/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: 12 * time.Hour,
		Issuer:          "test-issuer",
	}
	return NewJWTService(cfg)
}

func TestNewJWTService(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:          "test-secret",
		TokenExpiration: time.Hour,
		Issuer:          "test-issuer",
	}

	svc := NewJWTService(cfg)

	assert.NotNil(t, svc)
	assert.Equal(t, []byte(cfg.Secret), svc.secret)
	assert.Equal(t, cfg.TokenExpiration, svc.expiration)
	assert.Equal(t, cfg.Issuer, svc.issuer)
}

func TestGenerate(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.Generate(userID, "clerk")

	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.True(t, token.ExpiresAt.After(time.Now()))
}

func TestValidate_Success(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.Generate(userID, "clerk")
	require.NoError(t, err)

	claims, err := svc.Validate(token.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "clerk", claims.Username)
	assert.Equal(t, "test-issuer", claims.Issuer)
}

func TestValidate_ExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-chars",
		TokenExpiration: -1 * time.Hour, // Already expired
		Issuer:          "test-issuer",
	}
	svc := NewJWTService(cfg)

	token, err := svc.Generate(uuid.New(), "clerk")
	require.NoError(t, err)

	_, err = svc.Validate(token.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.Validate("not-a-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	token, err := svc.Generate(uuid.New(), "clerk")
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{
		Secret:          "a-completely-different-signing-key",
		TokenExpiration: time.Hour,
		Issuer:          "test-issuer",
	})

	_, err = other.Validate(token.AccessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
