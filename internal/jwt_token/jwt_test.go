package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pavrica/pkg/domain-errors"
)

const testSigningKey = "test-signing-key"

func TestGenerateAndValidate(t *testing.T) {
	service := NewJWTService(testSigningKey, "pavrica")

	tok, err := service.GenerateAccessToken("agent-7", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := service.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "agent-7", claims.AgentID)
	assert.Equal(t, "pavrica", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	service := NewJWTService(testSigningKey, "pavrica")

	t.Run("expired token", func(t *testing.T) {
		tok, err := service.GenerateAccessToken("agent-7", -time.Minute)
		require.NoError(t, err)

		_, err = service.ValidateToken(tok)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewJWTService("a-different-key", "pavrica")
		tok, err := other.GenerateAccessToken("agent-7", time.Hour)
		require.NoError(t, err)

		_, err = service.ValidateToken(tok)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-jwt")
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	t.Run("non-HMAC signing method rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{AgentID: "agent-7"})
		tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateToken(tok)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func TestAdapter(t *testing.T) {
	service := NewJWTService(testSigningKey, "pavrica")
	adapter := NewJWTServiceAdapter(service)

	tok, err := service.GenerateAccessToken("agent-7", time.Hour)
	require.NoError(t, err)

	claims, err := adapter.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "agent-7", claims.AgentID)

	_, err = adapter.ValidateToken("bogus")
	assert.Error(t, err)
}
