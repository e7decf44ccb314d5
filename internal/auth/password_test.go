package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashProducesDistinctSaltedHashes(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	second, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("Sup3r$ecret", first))
	assert.True(t, hasher.Verify("Sup3r$ecret", second))
}

func TestVerifyRejectsOtherPasswords(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)

	assert.False(t, hasher.Verify("Sup3r$ecrets", hash))
	assert.False(t, hasher.Verify("", hash))
}

func TestVerifyMalformedHashReturnsFalse(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	assert.False(t, hasher.Verify("anything", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("anything", ""))
}

func TestNewHasherClampsCost(t *testing.T) {
	hasher := NewHasher(1000)
	hash, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("Sup3r$ecret", hash))
}
