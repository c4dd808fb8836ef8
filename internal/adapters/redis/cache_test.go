package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	redisadapter "github.com/robertarktes/show-booking/internal/adapters/redis"
	"github.com/robertarktes/show-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("needs docker")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCache(t *testing.T) {
	client := newTestClient(t)
	cache := redisadapter.NewCache(client)
	ctx := context.Background()

	t.Run("hold lock is exclusive until released", func(t *testing.T) {
		doc := uuid.New()
		ok, err := cache.AcquireHoldLock(ctx, doc, "a", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = cache.AcquireHoldLock(ctx, doc, "b", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, cache.ReleaseHoldLock(ctx, doc, "a"))
		ok, err = cache.AcquireHoldLock(ctx, doc, "b", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired owner cannot release the next lock", func(t *testing.T) {
		doc := uuid.New()
		ok, err := cache.AcquireHoldLock(ctx, doc, "slow", 50*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)
		time.Sleep(100 * time.Millisecond)

		ok, err = cache.AcquireHoldLock(ctx, doc, "next", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, cache.ReleaseHoldLock(ctx, doc, "slow"))
		ok, err = cache.AcquireHoldLock(ctx, doc, "third", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok, "lock of the next owner survives")
	})

	t.Run("favorites round trip and invalidate", func(t *testing.T) {
		user := uuid.New()
		_, hit, err := cache.GetFavorites(ctx, user)
		require.NoError(t, err)
		assert.False(t, hit)

		gen, err := cache.FavoritesGeneration(ctx, user)
		require.NoError(t, err)
		stored, err := cache.SetFavorites(ctx, user, nil, time.Minute, gen)
		require.NoError(t, err)
		require.True(t, stored)
		favs, hit, err := cache.GetFavorites(ctx, user)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Empty(t, favs)

		fav := domain.Favorite{UserID: user, EntityType: domain.EntityArtist, EntityID: uuid.New()}
		_, err = cache.SetFavorites(ctx, user, []domain.Favorite{fav}, time.Minute, gen)
		require.NoError(t, err)
		favs, _, err = cache.GetFavorites(ctx, user)
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.Equal(t, fav.EntityID, favs[0].EntityID)

		require.NoError(t, cache.InvalidateFavorites(ctx, user))
		_, hit, err = cache.GetFavorites(ctx, user)
		require.NoError(t, err)
		assert.False(t, hit)

		stored, err = cache.SetFavorites(ctx, user, []domain.Favorite{fav}, time.Minute, gen)
		require.NoError(t, err)
		assert.False(t, stored, "load that started before the invalidation is dropped")
		_, hit, err = cache.GetFavorites(ctx, user)
		require.NoError(t, err)
		assert.False(t, hit)

		next, err := cache.FavoritesGeneration(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, gen+1, next)
	})

	t.Run("idempotent responses expire", func(t *testing.T) {
		idem := redisadapter.NewIdempotency(client)
		resp := redisadapter.IdempResponse{Status: 201, ContentType: "application/json", Result: []byte(`{"ok":true}`)}
		require.NoError(t, idem.Set(ctx, "k1", resp, time.Minute))

		got, err := idem.Get(ctx, "k1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, resp, *got)

		ttl, err := client.TTL(ctx, "idemp:k1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))

		missing, err := idem.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}
