package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheck(t *testing.T) {
	hs := NewHashServiceWithCost(bcrypt.MinCost)

	h1, err := hs.HashPassword("secret1")
	require.NoError(t, err)
	h2, err := hs.HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", h1)
	assert.NotEqual(t, h1, h2, "salted hashes differ")
	assert.True(t, hs.CheckPasswordHash("secret1", h1))
	assert.False(t, hs.CheckPasswordHash("secret2", h1))
	assert.False(t, hs.CheckPasswordHash("secret1", "not-a-hash"))
}

func TestHashTooLong(t *testing.T) {
	hs := NewHashServiceWithCost(bcrypt.MinCost)

	_, err := hs.HashPassword(strings.Repeat("x", 100))
	assert.ErrorIs(t, err, ErrFailedToHashPassword)
}
