package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/discuss/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.Set(config.AppConfig{JWTSecret: "test-secret"})

	tok, err := GenerateToken("mod", true, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "mod", claims.Username)
	assert.True(t, claims.Moderator)
	assert.Equal(t, "mod", claims.Subject)
}

func TestParseTokenRejects(t *testing.T) {
	config.Set(config.AppConfig{JWTSecret: "test-secret"})

	expired, err := GenerateToken("bob", false, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "bob"})
	signed, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.Error(t, err)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{})
	signed, err = anonymous.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = ParseToken(signed)
	assert.Error(t, err)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}
