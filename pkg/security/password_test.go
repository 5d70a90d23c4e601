package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(DefaultCost)

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, hasher.Compare(hash, "secret123"))
	assert.Error(t, hasher.Compare(hash, "wrong-password"))
}

func TestHashTooShort(t *testing.T) {
	hasher := NewBcryptHasher(DefaultCost)

	_, err := hasher.Hash("abc")
	assert.ErrorIs(t, err, ErrPasswordLength)
}

func TestCostOutOfRangeFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	assert.NoError(t, hasher.Compare(hash, "secret123"))
}
