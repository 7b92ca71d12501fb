package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startRedis runs a throwaway Redis container, skipping the test when Docker
// is not reachable.
func startRedis(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	var store *Store
	require.NoError(t, pool.Retry(func() error {
		var errRetry error
		store, errRetry = NewStore(context.Background(), Options{
			Addr:      fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp")),
			Namespace: "test:",
		})
		return errRetry
	}))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := startRedis(t)
	ctx := context.Background()

	_, found, err := store.Load(ctx, "cc_listings")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "cc_listings", `[{"id":"1"}]`))
	value, found, err := store.Load(ctx, "cc_listings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, value)

	raw, err := store.client.Get(ctx, "test:cc_listings").Result()
	require.NoError(t, err)
	assert.Equal(t, value, raw)

	require.NoError(t, store.Remove(ctx, "cc_listings"))
	_, found, err = store.Load(ctx, "cc_listings")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewStoreFromClient_DefaultNamespace(t *testing.T) {
	store := NewStoreFromClient(nil, "")
	assert.Equal(t, DefaultNamespace, store.namespace)
}
