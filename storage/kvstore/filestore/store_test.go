package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gce/core"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "data"))
	require.NoError(t, err)

	_, err = s.Get(ctx, "missing")
	assert.Equal(t, core.ErrKeyNotFound, err)

	require.NoError(t, s.Set(ctx, core.KeyRecords, []byte(`[]`)))
	require.NoError(t, s.Set(ctx, core.KeyRecords, []byte(`[{"id":1}]`)))
	require.NoError(t, s.Set(ctx, core.KeyUsers, []byte(`[]`)))

	got, err := s.Get(ctx, core.KeyRecords)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.KeyRecords, core.KeyUsers}, keys)

	require.NoError(t, s.Delete(ctx, core.KeyRecords))
	require.NoError(t, s.Delete(ctx, core.KeyRecords))
	_, err = s.Get(ctx, core.KeyRecords)
	assert.Equal(t, core.ErrKeyNotFound, err)
}

func TestStore_invalidKey(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../x", `a\b`, ".hidden"} {
		assert.Error(t, s.Set(context.Background(), key, []byte("1")), key)
	}
}
