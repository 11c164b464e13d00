package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/storage/kvstore/memstore"
)

func TestWithQuota(t *testing.T) {
	ctx := context.Background()
	backend := memstore.Open()
	require.NoError(t, backend.Set(ctx, "pre", []byte("123456"))) // 3 + 6 bytes already used

	store := WithQuota(backend, 20)

	// 1 + 10 = 11 -> 20 total
	require.NoError(t, store.Set(ctx, "a", []byte("0123456789")))
	used, limit, err := Usage(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, int64(20), used)
	assert.Equal(t, int64(20), limit)

	// growing past the quota fails and keeps the previous value
	err = store.Set(ctx, "a", []byte("0123456789x"))
	assert.True(t, core.IsQuotaExceeded(err))
	val, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(val))

	// replacing with something smaller frees space
	require.NoError(t, store.Set(ctx, "a", []byte("01")))
	require.NoError(t, store.Set(ctx, "b", []byte("0123")))

	require.NoError(t, store.Delete(ctx, "pre"))
	used, _, err = Usage(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, int64(3+5), used)
}

func TestWithQuota_disabled(t *testing.T) {
	backend := memstore.Open()
	assert.Same(t, core.Store(backend), WithQuota(backend, 0))

	used, limit, err := Usage(context.Background(), backend)
	require.NoError(t, err)
	assert.Zero(t, used)
	assert.Zero(t, limit)
}
