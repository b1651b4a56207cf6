package userctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/sessionauth/internal/models"
)

func TestUserCtx(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		_, ok := FromContext(context.Background())

		require.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		claims := models.Claims{UserID: 1, Email: "alice@x.com"}

		got, ok := FromContext(New(context.Background(), claims))

		require.True(t, ok)
		require.Equal(t, claims, got)
	})
}
