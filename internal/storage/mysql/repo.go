package mysql

import (
	"context"
	"database/sql"
	"errors"

	"trip_planner/internal/adapters/observability"
)

// Repo is the MySQL-backed key-value persistence adapter.
type Repo struct {
	db     *sql.DB
	prefix string
}

func New(db *sql.DB, prefix string) *Repo { return &Repo{db: db, prefix: prefix} }

// Migrate creates the kv table when it does not exist yet.
func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createKVSQL)
	return err
}

func (r *Repo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := r.db.QueryRowContext(ctx, getKVSQL, r.prefix+key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveStore("mysql", "miss")
		return nil, false, nil
	}
	if err != nil {
		observability.ObserveStore("mysql", "error")
		return nil, false, err
	}
	observability.ObserveStore("mysql", "hit")
	return v, true, nil
}

func (r *Repo) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.ExecContext(ctx, upsertKVSQL, r.prefix+key, value); err != nil {
		observability.ObserveStore("mysql", "error")
		return err
	}
	observability.ObserveStore("mysql", "set")
	return nil
}
