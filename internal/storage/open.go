package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "trip_planner/internal/adapters/redis"
	"trip_planner/internal/domain"
	"trip_planner/internal/shared"
	mysqlrepo "trip_planner/internal/storage/mysql"
)

// Open returns the key-value store selected by cfg.StoreDriver and a close
// function for it.
func Open(ctx context.Context, cfg shared.Config) (domain.KV, func() error, error) {
	switch cfg.StoreDriver {
	case "", "redis":
		s := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.StorePrefix)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis store ok")
		return s, s.Close, nil

	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		repo := mysqlrepo.New(db, cfg.StorePrefix)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info().Msg("mysql store ok")
		return repo, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
