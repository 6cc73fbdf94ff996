package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("redis container tests are skipped with -short")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	store, err := NewRedisStore(ctx, config.RedisConfig{Enabled: true, Host: host, Port: port.Int()})
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get(ctx, "auth:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "auth:u1", []byte(`{"role":"admin"}`), time.Minute))
	got, ok, err := store.Get(ctx, "auth:u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"role":"admin"}`, string(got))

	ttl, err := store.client.TTL(ctx, keyPrefix+"auth:u1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	require.NoError(t, store.Delete(ctx, "auth:u1"))
	_, ok, err = store.Get(ctx, "auth:u1")
	require.NoError(t, err)
	assert.False(t, ok)
}
