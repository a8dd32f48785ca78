package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "test-issuer"
)

func TestGenerateAndParse(t *testing.T) {
	srv := NewTokenService(testSecret, testIssuer, 7*24*time.Hour)

	token, exp, err := srv.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, 5*time.Second)

	claims, err := srv.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestParseFailures(t *testing.T) {
	srv := NewTokenService(testSecret, testIssuer, time.Hour)
	token, _, err := srv.Generate("user-123")
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		_, err := srv.Parse("")
		assert.ErrorIs(t, err, ErrTokenNotFound)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := srv.Parse("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("other-secret", testIssuer, time.Hour)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenService(testSecret, "someone-else", time.Hour)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewTokenService(testSecret, testIssuer, time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestMissingSecret(t *testing.T) {
	srv := NewTokenService("", testIssuer, time.Hour)

	_, _, err := srv.Generate("user-123")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.Contains(t, err.Error(), "creating token")
}
