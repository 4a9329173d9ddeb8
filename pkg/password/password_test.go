package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Password123!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Password123!", hash)

	assert.True(t, hasher.Compare("Password123!", hash))
	assert.False(t, hasher.Compare("password123!", hash))
}

func TestCompareMalformedHash(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	assert.False(t, hasher.Compare("secret", ""))
	assert.False(t, hasher.Compare("secret", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Compare("secret", "$2a$broken"))
}

func TestNewHasherClampsInvalidCost(t *testing.T) {
	hasher := NewHasher(99)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestSamePrimitiveForCodes(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("493817")
	require.NoError(t, err)

	assert.True(t, hasher.Compare("493817", hash))
	assert.False(t, hasher.Compare("493818", hash))
}
