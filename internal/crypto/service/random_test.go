package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/robopass/robopass/internal/crypto/domain"
)

func TestRandomBytes(t *testing.T) {
	t.Run("returns requested length", func(t *testing.T) {
		b, err := RandomBytes(32)
		require.NoError(t, err)
		assert.Len(t, b, 32)
	})

	t.Run("successive draws differ", func(t *testing.T) {
		first, err := RandomBytes(32)
		require.NoError(t, err)
		second, err := RandomBytes(32)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestGeneratePassword(t *testing.T) {
	t.Run("generates at requested length from alphabet", func(t *testing.T) {
		password, err := GeneratePassword(DefaultPasswordAlphabet, DefaultPasswordLength)
		require.NoError(t, err)
		assert.Len(t, password, DefaultPasswordLength)

		for _, r := range password {
			assert.True(t, strings.ContainsRune(string(DefaultPasswordAlphabet), r))
		}
	})

	t.Run("accepts boundary lengths", func(t *testing.T) {
		password, err := GeneratePassword(DefaultPasswordAlphabet, MinPasswordLength)
		require.NoError(t, err)
		assert.Len(t, password, MinPasswordLength)

		password, err = GeneratePassword(DefaultPasswordAlphabet, MaxPasswordLength)
		require.NoError(t, err)
		assert.Len(t, password, MaxPasswordLength)
	})

	t.Run("rejects out-of-range lengths", func(t *testing.T) {
		_, err := GeneratePassword(DefaultPasswordAlphabet, MinPasswordLength-1)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPasswordLength)

		_, err = GeneratePassword(DefaultPasswordAlphabet, MaxPasswordLength+1)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidPasswordLength)
	})

	t.Run("rejects empty alphabet", func(t *testing.T) {
		_, err := GeneratePassword(nil, DefaultPasswordLength)
		assert.Error(t, err)
	})

	t.Run("successive passwords differ", func(t *testing.T) {
		first, err := GeneratePassword(DefaultPasswordAlphabet, DefaultPasswordLength)
		require.NoError(t, err)
		second, err := GeneratePassword(DefaultPasswordAlphabet, DefaultPasswordLength)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
