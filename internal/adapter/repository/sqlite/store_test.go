package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := openTempStore(t)

	_, found, err := store.Load(ctx, "cc_listings")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "cc_listings", "[]"))
	require.NoError(t, store.Save(ctx, "cc_listings", `[{"id":"1"}]`))

	value, found, err := store.Load(ctx, "cc_listings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, value)

	require.NoError(t, store.Remove(ctx, "cc_listings"))
	_, found, err = store.Load(ctx, "cc_listings")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	store, path := openTempStore(t)
	require.NoError(t, store.Save(ctx, "cc_user", `{"email":"a@school.edu","name":"a"}`))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Load(ctx, "cc_user")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"email":"a@school.edu","name":"a"}`, value)
}

func TestStore_InMemory(t *testing.T) {
	ctx := context.Background()
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(ctx, "k", "v"))
	value, found, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", value)
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nCREATE TABLE t (a INT);\n",
		upSection("-- +migrate Up\nCREATE TABLE t (a INT);\n-- +migrate Down\nDROP TABLE t;"))
	assert.Equal(t, "SELECT 1;", upSection("SELECT 1;"))
}
