package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "hunter23"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter22"))
}

func TestHashPasswordClampsCost(t *testing.T) {
	for _, cost := range []int{-1, 0, 99} {
		hash, err := HashPassword("hunter22", cost)
		require.NoError(t, err)
		assert.True(t, VerifyPassword(hash, "hunter22"))
	}
}
