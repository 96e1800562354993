package redisad

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"trip_planner/internal/adapters/observability"
)

// Store is a key-value persistence adapter on top of Redis. Values never
// expire; every key is namespaced with prefix.
type Store struct {
	c      *redis.Client
	prefix string
}

func New(addr, pass string, db int, prefix string) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), prefix)
}

func NewWithClient(c *redis.Client, prefix string) *Store {
	return &Store{c: c, prefix: prefix}
}

func (r *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.c.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveStore("redis", "miss")
		return nil, false, nil
	}
	if err != nil {
		observability.ObserveStore("redis", "error")
		return nil, false, err
	}
	observability.ObserveStore("redis", "hit")
	return v, true, nil
}

func (r *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := r.c.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		observability.ObserveStore("redis", "error")
		return err
	}
	observability.ObserveStore("redis", "set")
	return nil
}

func (r *Store) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Store) Close() error { return r.c.Close() }
