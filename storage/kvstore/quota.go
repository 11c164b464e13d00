package kvstore

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
)

// quotaStore refuses writes that would push the summed size of every stored value past a fixed limit.
type quotaStore struct {
	core.Store

	limit  int64
	mutex  sync.Mutex
	sizes  map[string]int64
	used   int64
	loaded bool
}

// WithQuota wraps store with a byte quota; limit <= 0 disables it.
func WithQuota(store core.Store, limit int64) core.Store {
	if limit <= 0 {
		return store
	}
	return &quotaStore{Store: store, limit: limit, sizes: make(map[string]int64)}
}

// load measures what the backend already holds; callers hold the mutex.
func (q *quotaStore) load(ctx context.Context) error {
	if q.loaded {
		return nil
	}
	keys, err := q.Store.Keys(ctx)
	if err != nil {
		return errors.Wrap(err, "listing keys")
	}
	for _, key := range keys {
		val, err := q.Store.Get(ctx, key)
		if err != nil {
			if errors.Cause(err) == core.ErrKeyNotFound {
				continue
			}
			return errors.Wrapf(err, "measuring %s", key)
		}
		q.sizes[key] = int64(len(key) + len(val))
		q.used += q.sizes[key]
	}
	q.loaded = true
	return nil
}

func (q *quotaStore) Set(ctx context.Context, key string, value []byte) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if err := q.load(ctx); err != nil {
		return err
	}
	size := int64(len(key) + len(value))
	if q.used-q.sizes[key]+size > q.limit {
		return core.ErrQuotaExceeded
	}
	if err := q.Store.Set(ctx, key, value); err != nil {
		return err
	}
	q.used += size - q.sizes[key]
	q.sizes[key] = size
	return nil
}

func (q *quotaStore) Delete(ctx context.Context, key string) error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if err := q.Store.Delete(ctx, key); err != nil {
		return err
	}
	q.used -= q.sizes[key]
	delete(q.sizes, key)
	return nil
}

// Usage returns the bytes in use and the limit for stores wrapped by WithQuota.
func Usage(ctx context.Context, store core.Store) (used, limit int64, err error) {
	q, ok := store.(*quotaStore)
	if !ok {
		return 0, 0, nil
	}
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if err = q.load(ctx); err != nil {
		return 0, 0, err
	}
	return q.used, q.limit, nil
}
