package pgstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/gce/core"
)

var tableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Store keeps every key as one row of a two-column table.
type Store struct {
	db    *sqlx.DB
	table string
}

var _ core.Store = (*Store)(nil)

func Open(conf core.PostgresConfig) (*Store, error) {
	if !tableNameRegex.MatchString(conf.Table) {
		return nil, errors.Errorf("invalid table name %q", conf.Table)
	}
	db, err := sqlx.Open("postgres", conf.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &Store{db: db, table: conf.Table}
	if err = s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

func (s *Store) migrate(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, pq.QuoteIdentifier(s.table))
	_, err := s.db.ExecContext(ctx, q)
	return errors.Wrap(err, "creating key-value table")
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	q := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, pq.QuoteIdentifier(s.table))
	if err := s.db.GetContext(ctx, &val, q, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "selecting value")
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	q := fmt.Sprintf(
		`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		pq.QuoteIdentifier(s.table),
	)
	if _, err := s.db.ExecContext(ctx, q, key, value); err != nil {
		// 53100: disk_full
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "53100" {
			return core.ErrQuotaExceeded
		}
		return errors.Wrap(err, "upserting value")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, pq.QuoteIdentifier(s.table))
	_, err := s.db.ExecContext(ctx, q, key)
	return errors.Wrap(err, "deleting value")
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	q := fmt.Sprintf(`SELECT key FROM %s ORDER BY key`, pq.QuoteIdentifier(s.table))
	if err := s.db.SelectContext(ctx, &keys, q); err != nil {
		return nil, errors.Wrap(err, "selecting keys")
	}
	return keys, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
