package core

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Collection keys.
const (
	KeySettings = "gce_settings_v2"
	KeyUsers    = "gce_users_v2"
	KeyRecords  = "gce_records_v2"
	KeyLogs     = "gce_logs_v2"
	KeySession  = "gce_session_v2"
)

// AllKeys lists every key the application writes.
var AllKeys = []string{KeySettings, KeyUsers, KeyRecords, KeyLogs, KeySession}

// Store is a key-value backend holding one serialized blob per key.
// Set must either store the whole value or leave the previous value untouched.
type Store interface {
	// Get returns ErrKeyNotFound when key was never set.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// LoadJSON decodes the blob stored at key into dest.
// found is false when the key does not exist; dest is not touched then.
func LoadJSON(ctx context.Context, store Store, key string, dest interface{}) (found bool, err error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		if errors.Cause(err) == ErrKeyNotFound {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading %s", key)
	}
	if err = json.Unmarshal(data, dest); err != nil {
		return true, errors.Wrapf(err, "decoding %s", key)
	}
	return true, nil
}

// SaveJSON encodes value and stores it at key.
func SaveJSON(ctx context.Context, store Store, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	if err = store.Set(ctx, key, data); err != nil {
		return errors.Wrapf(err, "writing %s", key)
	}
	return nil
}
