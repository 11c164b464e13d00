package kvstore

import (
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
	"github.com/trezcool/gce/storage/kvstore/filestore"
	"github.com/trezcool/gce/storage/kvstore/memstore"
	"github.com/trezcool/gce/storage/kvstore/pgstore"
	"github.com/trezcool/gce/storage/kvstore/redisstore"
	"github.com/trezcool/gce/storage/kvstore/s3store"
)

// Open returns the configured backend wrapped with the configured quota.
func Open(conf core.StoreConfig) (core.Store, error) {
	var (
		store core.Store
		err   error
	)
	switch conf.Driver {
	case "", "file":
		store, err = filestore.Open(conf.Dir)
	case "memory":
		store = memstore.Open()
	case "redis":
		store, err = redisstore.Open(conf.Redis)
	case "postgres":
		store, err = pgstore.Open(conf.Postgres)
	case "s3":
		store, err = s3store.Open(conf.S3)
	default:
		return nil, errors.Errorf("unknown store driver %q", conf.Driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s store", conf.Driver)
	}
	return WithQuota(store, conf.QuotaBytes), nil
}
