package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	token, err := GenerateJWT("s3cret", "42", "ADMIN", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestJWT_Rejects(t *testing.T) {
	token, err := GenerateJWT("s3cret", "42", "ADMIN", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT("other", token)
	assert.Error(t, err, "wrong secret")

	expired, err := GenerateJWT("s3cret", "42", "ADMIN", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT("s3cret", expired)
	assert.Error(t, err, "expired")

	_, err = GenerateJWT("", "42", "ADMIN", time.Hour)
	assert.Error(t, err)
}
