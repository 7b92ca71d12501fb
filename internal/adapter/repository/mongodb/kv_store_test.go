package mongodb

import (
	"context"
	"fmt"
	"testing"

	"github.com/Abdurahmanit/GroupProject/campus-cars/internal/platform/logger"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongodb integration test in short mode")
	}
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
		Env: []string{
			"MONGO_INITDB_ROOT_USERNAME=root",
			"MONGO_INITDB_ROOT_PASSWORD=password",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://root:password@%s/?authSource=admin", resource.GetHostPort("27017/tcp"))
	var client *mongo.Client
	require.NoError(t, pool.Retry(func() error {
		var errRetry error
		client, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return client.Ping(context.Background(), nil)
	}))
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("campus_cars_test")
}

func TestKVStore_RoundTrip(t *testing.T) {
	db := startMongo(t)
	store := NewKVStore(db, logger.NewNop())
	ctx := context.Background()

	_, found, err := store.Load(ctx, "cc_user")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "cc_user", `{"email":"a@school.edu","name":"a"}`))
	require.NoError(t, store.Save(ctx, "cc_user", `{"email":"b@school.edu","name":"b"}`))

	value, found, err := store.Load(ctx, "cc_user")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"email":"b@school.edu","name":"b"}`, value)

	require.NoError(t, store.Remove(ctx, "cc_user"))
	require.NoError(t, store.Remove(ctx, "cc_user"))
	_, found, err = store.Load(ctx, "cc_user")
	require.NoError(t, err)
	assert.False(t, found)
}
