package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	h1, err := HashPassword("Secret123!")
	require.NoError(t, err)
	h2, err := HashPassword("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "each hash carries a fresh salt")
	assert.NotContains(t, h1, "Secret123!")

	assert.True(t, CheckPassword(h1, "Secret123!"))
	assert.True(t, CheckPassword(h2, "Secret123!"))
	assert.False(t, CheckPassword(h1, "secret123!"))
	assert.False(t, CheckPassword(h1, ""))
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("", "x"))
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "x"))
}
