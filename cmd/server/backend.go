package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/kv"
)

// openBackend returns the storage backend selected by cfg and a function
// releasing its connections.  The redis backend reuses rdb.
func openBackend(cfg config.Config, rdb *redis.Client) (kv.Backend, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), noop, nil
	case config.BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return kv.NewSQL(db), func() { _ = db.Close() }, nil
	case config.BackendMySQL:
		db, err := database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql: %w", err)
		}
		return kv.NewSQL(db), func() { _ = db.Close() }, nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("redis backend selected without a redis client")
		}
		return kv.NewRedis(rdb, cfg.KVRedisPrefix), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
