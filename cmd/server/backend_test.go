package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

func TestOpenBackendPersists(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cases := []config.Config{
		{Backend: config.BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "db", "ticketing.db")},
		{Backend: config.BackendRedis, KVRedisPrefix: "kv"},
	}
	ctx := context.Background()
	for _, cfg := range cases {
		t.Run(cfg.Backend, func(t *testing.T) {
			b, closeFn, err := openBackend(cfg, rdb)
			if err != nil {
				t.Fatalf("openBackend: %v", err)
			}
			store, err := repository.Open(ctx, b)
			if err != nil {
				t.Fatalf("repository.Open: %v", err)
			}
			id, err := store.IDs.Next(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if _, _, err := store.Events.Insert(ctx, id, model.Event{ID: id, Name: "kept"}); err != nil {
				t.Fatal(err)
			}
			closeFn()

			// A second open sees the same data and continues the id sequence.
			b, closeFn, err = openBackend(cfg, rdb)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer closeFn()
			store, err = repository.Open(ctx, b)
			if err != nil {
				t.Fatal(err)
			}
			e, ok, err := store.Events.Get(ctx, id)
			if err != nil || !ok || e.Name != "kept" {
				t.Fatalf("after reopen: %+v ok=%v err=%v", e, ok, err)
			}
			if next, _ := store.IDs.Next(ctx); next != id+1 {
				t.Fatalf("next id = %d, want %d", next, id+1)
			}
		})
	}
}

func TestOpenBackendErrors(t *testing.T) {
	if _, _, err := openBackend(config.Config{Backend: config.BackendRedis}, nil); err == nil {
		t.Fatal("redis backend without a client must fail")
	}
	if _, _, err := openBackend(config.Config{Backend: "etcd"}, nil); err == nil {
		t.Fatal("unknown backend must fail")
	}
	if b, closeFn, err := openBackend(config.Config{Backend: config.BackendMemory}, nil); err != nil || b == nil {
		t.Fatalf("memory backend: %v", err)
	} else {
		closeFn()
	}
}
