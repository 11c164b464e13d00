package s3store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gce/core"
)

// runs against minio or any S3 compatible endpoint
func TestStore(t *testing.T) {
	endpoint := os.Getenv("TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_S3_ENDPOINT not set")
	}
	ctx := context.Background()
	s, err := Open(core.S3Config{
		Endpoint:  endpoint,
		Region:    "us-east-1",
		Bucket:    os.Getenv("TEST_S3_BUCKET"),
		AccessKey: os.Getenv("TEST_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("TEST_S3_SECRET_KEY"),
		Prefix:    "gce-test-" + uuid.NewString() + "/",
	})
	require.NoError(t, err)

	_, err = s.Get(ctx, core.KeyLogs)
	assert.Equal(t, core.ErrKeyNotFound, err)

	require.NoError(t, s.Set(ctx, core.KeyLogs, []byte(`[]`)))
	got, err := s.Get(ctx, core.KeyLogs)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.KeyLogs}, keys)

	require.NoError(t, s.Delete(ctx, core.KeyLogs))
	_, err = s.Get(ctx, core.KeyLogs)
	assert.Equal(t, core.ErrKeyNotFound, err)
}
