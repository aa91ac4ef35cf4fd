package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2idHasher(t *testing.T) {
	hasher := NewArgon2idHasher()

	t.Run("HashAndVerify", func(t *testing.T) {
		salt := hasher.NewSalt()
		hash, err := hasher.Hash("SecurePass123!", salt)
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

		ok, err := hasher.Verify(hash, "SecurePass123!", salt)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("WrongPasswordFails", func(t *testing.T) {
		salt := hasher.NewSalt()
		hash, err := hasher.Hash("SecurePass123!", salt)
		require.NoError(t, err)

		ok, err := hasher.Verify(hash, "WrongPass123!", salt)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("WrongSaltFails", func(t *testing.T) {
		salt := hasher.NewSalt()
		hash, err := hasher.Hash("SecurePass123!", salt)
		require.NoError(t, err)

		ok, err := hasher.Verify(hash, "SecurePass123!", hasher.NewSalt())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("SaltsAreUnique", func(t *testing.T) {
		assert.NotEqual(t, hasher.NewSalt(), hasher.NewSalt())
	})

	t.Run("SamePasswordDifferentHashes", func(t *testing.T) {
		salt := hasher.NewSalt()
		first, err := hasher.Hash("SecurePass123!", salt)
		require.NoError(t, err)
		second, err := hasher.Hash("SecurePass123!", salt)
		require.NoError(t, err)

		// argon2id embeds its own random salt on top of ours
		assert.NotEqual(t, first, second)
	})
}
