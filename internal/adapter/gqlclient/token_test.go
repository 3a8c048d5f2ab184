package gqlclient

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)

	got, ok := TokenExpiry(signedToken(t, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(exp),
	}))
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	_, ok = TokenExpiry(signedToken(t, jwt.RegisteredClaims{Subject: "admin"}))
	assert.False(t, ok, "no exp claim")

	_, ok = TokenExpiry("opaque-api-key")
	assert.False(t, ok)

	_, ok = TokenExpiry("")
	assert.False(t, ok)
}
