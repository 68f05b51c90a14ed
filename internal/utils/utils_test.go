package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCOP(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1.000"},
		{1234567, "$1.234.567"},
		{-45000, "-$45.000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCOP(tt.amount))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0%", FormatPercent(5, 0))
	assert.Equal(t, "50%", FormatPercent(1, 2))
	assert.Equal(t, "33.3%", FormatPercent(1, 3))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("other", hash))
}

func TestRefreshTokenHash(t *testing.T) {
	token, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	hash := HashRefreshToken(token)
	assert.True(t, CompareRefreshTokenHash(token, hash))
	assert.False(t, CompareRefreshTokenHash(token+"x", hash))

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateJWT("user-1", "secret", time.Hour, "couple-finance-app")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "couple-finance-app", claims.Issuer)

	_, err = ParseAndValidateJWT(token, "wrong-secret")
	assert.Error(t, err)

	expired, _, err := GenerateJWT("user-1", "secret", -time.Minute, "couple-finance-app")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret")
	assert.Error(t, err)
}
