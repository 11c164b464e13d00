package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gce/core"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := Open()

	_, err := s.Get(ctx, "missing")
	assert.Equal(t, core.ErrKeyNotFound, err)

	val := []byte(`{"a":1}`)
	require.NoError(t, s.Set(ctx, "k", val))
	val[0] = 'x' // caller mutation must not leak into the store

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "k"}, keys)

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.Equal(t, core.ErrKeyNotFound, err)
}
