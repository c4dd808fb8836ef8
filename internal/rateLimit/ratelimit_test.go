package rateLimit

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	redisadapter "github.com/robertarktes/show-booking/internal/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRateLimiter_Allow(t *testing.T) {
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
	defer client.Close()

	clock := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(redisadapter.NewCache(client), 2, time.Minute)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := rl.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = rl.Allow(ctx, "user-2")
	require.NoError(t, err)
	assert.True(t, ok, "keys are counted separately")

	clock = clock.Add(time.Minute)
	ok, err = rl.Allow(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, ok, "a new window starts fresh")
}
