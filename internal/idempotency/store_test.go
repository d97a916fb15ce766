package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCacheOnlyStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, nil, time.Hour), mr
}

func TestLookupMissingKey(t *testing.T) {
	store, _ := newCacheOnlyStore(t)

	_, err := store.Lookup(context.Background(), "unknown", "hash")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinalizeThenLookupFromCache(t *testing.T) {
	store, _ := newCacheOnlyStore(t)
	ctx := context.Background()

	rec, err := store.Finalize(ctx, "key-1", "hash-1", 200, []byte(`{"balance":700}`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Status)

	got, err := store.Lookup(ctx, "key-1", "hash-1")
	require.NoError(t, err)
	assert.Equal(t, "key-1", got.Key)
	assert.Equal(t, 200, got.Status)
	assert.JSONEq(t, `{"balance":700}`, string(got.Body))
	assert.Equal(t, "application/json", got.ContentType)
	assert.Equal(t, "redis", got.ServedBy)
}

func TestLookupRejectsDifferentRequestHash(t *testing.T) {
	store, _ := newCacheOnlyStore(t)
	ctx := context.Background()

	_, err := store.Finalize(ctx, "key-1", "hash-1", 200, []byte(`{}`), "application/json")
	require.NoError(t, err)

	_, err = store.Lookup(ctx, "key-1", "other-hash")
	assert.ErrorIs(t, err, ErrHashMismatch)
}

func TestCacheExpiry(t *testing.T) {
	store, mr := newCacheOnlyStore(t)
	ctx := context.Background()

	_, err := store.Finalize(ctx, "key-1", "hash-1", 200, []byte(`{}`), "application/json")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Lookup(ctx, "key-1", "hash-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReserveWithoutDatabase(t *testing.T) {
	store, _ := newCacheOnlyStore(t)

	// Without Postgres, reservation degrades to pass-through.
	ok, err := store.Reserve(context.Background(), "key-1", "hash-1", "POST", "/v1/wallet/fund")
	require.NoError(t, err)
	assert.True(t, ok)
}
