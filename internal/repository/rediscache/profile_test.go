package rediscache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/sessionauth/internal/models"
	"github.com/nkiryanov/sessionauth/internal/testutil"
)

func Test_ProfileCache(t *testing.T) {
	t.Parallel()

	rd := testutil.StartRedisContainer(t)
	t.Cleanup(rd.Terminate)

	alice := models.PublicUser{
		ID:        1,
		Username:  "alice",
		Email:     "alice@x.com",
		IsActive:  true,
		CreatedAt: time.Date(2024, 1, 1, 19, 0, 1, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 2, 19, 0, 1, 0, time.UTC),
	}

	// Every test gets own key space
	newCache := func(t *testing.T, ttl time.Duration) *ProfileCache {
		c := NewProfileCache(rd.Client, ttl)
		c.prefix = "test:" + t.Name() + ":"
		return c
	}

	t.Run("Connect", func(t *testing.T) {
		client, err := Connect(t.Context(), rd.URL)
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		_, err = Connect(t.Context(), "not-a-url")
		require.Error(t, err, "invalid url has to fail")
	})

	t.Run("defaults", func(t *testing.T) {
		c := NewProfileCache(rd.Client, 0)

		require.Equal(t, defaultTTL, c.ttl)
		require.Equal(t, "sessionauth:user:42", c.key(42))
	})

	t.Run("miss", func(t *testing.T) {
		c := newCache(t, time.Minute)

		_, ok, gen, err := c.Get(t.Context(), alice.ID)

		require.NoError(t, err, "miss is not an error")
		require.False(t, ok)
		require.Zero(t, gen, "never invalidated profile has zero generation")
	})

	t.Run("set and get", func(t *testing.T) {
		c := newCache(t, time.Minute)
		require.NoError(t, c.Set(t.Context(), alice, 0))

		got, ok, _, err := c.Get(t.Context(), alice.ID)

		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, alice.ID, got.ID)
		require.Equal(t, alice.Username, got.Username)
		require.Equal(t, alice.Email, got.Email)
		require.True(t, alice.CreatedAt.Equal(got.CreatedAt))

		ttl, err := rd.Client.TTL(t.Context(), c.key(alice.ID)).Result()
		require.NoError(t, err)
		require.Greater(t, ttl, time.Duration(0), "entry has to expire")
	})

	t.Run("invalidate", func(t *testing.T) {
		c := newCache(t, time.Minute)
		require.NoError(t, c.Set(t.Context(), alice, 0))

		require.NoError(t, c.Invalidate(t.Context(), alice.ID))

		_, ok, gen, err := c.Get(t.Context(), alice.ID)
		require.NoError(t, err)
		require.False(t, ok, "invalidated entry has to be gone")
		require.EqualValues(t, 1, gen)

		require.NoError(t, c.Invalidate(t.Context(), alice.ID), "invalidating missed entry is ok")
		_, _, gen, err = c.Get(t.Context(), alice.ID)
		require.NoError(t, err)
		require.EqualValues(t, 2, gen)

		ttl, err := rd.Client.TTL(t.Context(), c.genKey(alice.ID)).Result()
		require.NoError(t, err)
		require.Greater(t, ttl, time.Minute, "generation has to outlive profile entries")
	})

	t.Run("profile read before invalidation is not stored", func(t *testing.T) {
		c := newCache(t, time.Minute)

		// Reader misses, goes to the store, meanwhile profile is updated
		_, _, gen, err := c.Get(t.Context(), alice.ID)
		require.NoError(t, err)
		require.NoError(t, c.Invalidate(t.Context(), alice.ID))

		require.NoError(t, c.Set(t.Context(), alice, gen), "stale set is skipped, not failed")

		_, ok, current, err := c.Get(t.Context(), alice.ID)
		require.NoError(t, err)
		require.False(t, ok, "stale profile must not be cached")

		// Next reader caches the fresh profile
		bobby := alice
		bobby.Username = "bobby"
		require.NoError(t, c.Set(t.Context(), bobby, current))

		got, ok, _, err := c.Get(t.Context(), alice.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "bobby", got.Username)
	})

	t.Run("broken entry", func(t *testing.T) {
		c := newCache(t, time.Minute)
		require.NoError(t, rd.Client.Set(t.Context(), c.key(alice.ID), "{", time.Minute).Err())

		_, ok, _, err := c.Get(t.Context(), alice.ID)

		require.Error(t, err)
		require.False(t, ok)
	})

	t.Run("broken generation", func(t *testing.T) {
		c := newCache(t, time.Minute)
		require.NoError(t, rd.Client.Set(t.Context(), c.genKey(alice.ID), "x", time.Minute).Err())

		_, _, _, err := c.Get(t.Context(), alice.ID)

		require.Error(t, err)
	})
}
