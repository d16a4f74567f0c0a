package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, sessionID string) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, sessionID, time.Hour), mr
}

func TestStorePutGet(t *testing.T) {
	store, _ := newTestStore(t, "sess-1")
	ctx := context.Background()

	_, found, err := store.Get(ctx, "wishlist.default")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, "wishlist.default", []byte(`[]`)))

	data, found, err := store.Get(ctx, "wishlist.default")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`[]`), data)
}

func TestStoreHasRemove(t *testing.T) {
	store, _ := newTestStore(t, "sess-1")
	ctx := context.Background()

	ok, err := store.Has(ctx, "wishlist.default")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "wishlist.default", []byte(`[]`)))

	ok, err = store.Has(ctx, "wishlist.default")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Remove(ctx, "wishlist.default"))

	ok, err = store.Has(ctx, "wishlist.default")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is fine.
	require.NoError(t, store.Remove(ctx, "wishlist.default"))
}

func TestStoreIsolatedPerSession(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	a := New(client, "sess-a", time.Hour)
	b := New(client, "sess-b", time.Hour)

	require.NoError(t, a.Put(ctx, "wishlist.default", []byte(`["a"]`)))

	_, found, err := b.Get(ctx, "wishlist.default")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreTTLRefreshOnWrite(t *testing.T) {
	store, mr := newTestStore(t, "sess-1")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "wishlist.default", []byte(`[]`)))

	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Put(ctx, "wishlist.default", []byte(`[]`)))

	mr.FastForward(45 * time.Minute)
	ok, err := store.Has(ctx, "wishlist.default")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(time.Hour)
	ok, err = store.Has(ctx, "wishlist.default")
	require.NoError(t, err)
	assert.False(t, ok)
}
