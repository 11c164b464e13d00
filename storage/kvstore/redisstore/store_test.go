package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gce/core"
)

func TestStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := Open(core.RedisConfig{Addr: addr, Prefix: "gce-test-" + uuid.NewString() + ":"})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, core.KeyRecords)
	assert.Equal(t, core.ErrKeyNotFound, err)

	require.NoError(t, s.Set(ctx, core.KeyRecords, []byte(`[]`)))
	require.NoError(t, s.Set(ctx, core.KeyUsers, []byte(`[{}]`)))
	got, err := s.Get(ctx, core.KeyUsers)
	require.NoError(t, err)
	assert.Equal(t, `[{}]`, string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.KeyRecords, core.KeyUsers}, keys)

	for _, k := range keys {
		require.NoError(t, s.Delete(ctx, k))
	}
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
