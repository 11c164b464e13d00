package pgstore

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gce/core"
)

func TestStore(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	table := "gce_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s, err := Open(core.PostgresConfig{DSN: dsn, Table: table})
	require.NoError(t, err)
	defer func() {
		_, _ = s.db.Exec(fmt.Sprintf("DROP TABLE %s", table))
		_ = s.Close()
	}()

	_, err = s.Get(ctx, core.KeySettings)
	assert.Equal(t, core.ErrKeyNotFound, err)

	require.NoError(t, s.Set(ctx, core.KeySettings, []byte(`{"feeForm":50}`)))
	require.NoError(t, s.Set(ctx, core.KeySettings, []byte(`{"feeForm":60}`)))
	got, err := s.Get(ctx, core.KeySettings)
	require.NoError(t, err)
	assert.Equal(t, `{"feeForm":60}`, string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.KeySettings}, keys)

	require.NoError(t, s.Delete(ctx, core.KeySettings))
	_, err = s.Get(ctx, core.KeySettings)
	assert.Equal(t, core.ErrKeyNotFound, err)
}

func TestOpen_invalidTable(t *testing.T) {
	_, err := Open(core.PostgresConfig{DSN: "postgres://localhost/x", Table: "x; DROP TABLE y"})
	assert.Error(t, err)
}
