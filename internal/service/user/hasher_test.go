package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func Test_BcryptHasher(t *testing.T) {
	t.Parallel()

	h := BcryptHasher{}

	t.Run("hash password", func(t *testing.T) {
		got, err := h.Hash("password")
		require.NoError(t, err)

		require.Len(t, got, 60, "bcrypt length is 60 letters")
		require.Equal(t, "$2a$", got[:4], "bcrypt hash should have prefix '$2a$'")

		cost, err := bcrypt.Cost([]byte(got))
		require.NoError(t, err)
		require.Equal(t, 10, cost, "default cost has to be used")
	})

	t.Run("salt is random", func(t *testing.T) {
		first, err := h.Hash("password")
		require.NoError(t, err)
		second, err := h.Hash("password")
		require.NoError(t, err)

		require.NotEqual(t, first, second)
	})

	t.Run("check password ok", func(t *testing.T) {
		hash, err := h.Hash("password")
		require.NoError(t, err)

		require.True(t, h.Check("password", hash))
	})

	t.Run("fail check if wrong password", func(t *testing.T) {
		hash, err := h.Hash("password")
		require.NoError(t, err)

		require.False(t, h.Check("wrong", hash))
		require.False(t, h.Check("", hash))
	})

	t.Run("malformed hash never matches", func(t *testing.T) {
		require.NotPanics(t, func() {
			require.False(t, h.Check("password", "not-a-hash"))
			require.False(t, h.Check("password", ""))
		})
	})

	t.Run("too long password", func(t *testing.T) {
		_, err := h.Hash(strings.Repeat("x", 73))

		require.Error(t, err, "bcrypt refuses passwords longer than 72 bytes")
	})
}
