package config

import (
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
)

func TestLoadDefaults(t *testing.T) {
    t.Setenv("STORAGE_BACKEND", "")
    t.Setenv("APP_PORT", "")
    t.Setenv("TICKET_ROLLBACK_MODE", "")
    cfg := Load()
    if cfg.Backend != BackendSQLite {
        t.Fatalf("Backend = %q, want %q", cfg.Backend, BackendSQLite)
    }
    if cfg.Port != "8080" || cfg.RollbackMode != "faithful" || cfg.AMQPEnabled {
        t.Fatalf("unexpected defaults %+v", cfg)
    }
}

func TestLoadMySQL(t *testing.T) {
    t.Setenv("STORAGE_BACKEND", "MySQL")
    t.Setenv("DB_USER", "app")
    t.Setenv("DB_PASS", "")
    t.Setenv("DB_HOST", "db")
    t.Setenv("DB_PORT", "3306")
    t.Setenv("DB_NAME", "tickets")
    cfg := Load()
    if cfg.Backend != BackendMySQL || cfg.DBHost != "db" || cfg.DBName != "tickets" {
        t.Fatalf("unexpected config %+v", cfg)
    }
}

func TestAMQPURLPrecedence(t *testing.T) {
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://b")
    if got := amqpURL(); got != "amqp://b" {
        t.Fatalf("amqpURL = %q", got)
    }
    t.Setenv("RABBITMQ_URL", "amqp://a")
    if got := amqpURL(); got != "amqp://a" {
        t.Fatalf("amqpURL = %q", got)
    }
}

func TestRateLimitShorthands(t *testing.T) {
    t.Setenv("RATE_LIMIT_BURST", "5")
    t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    t.Setenv("RATE_LIMIT_EXEMPT", "/healthz, /metrics")
    rl := LoadRateLimitConfig()
    if rl.Capacity != 5 || rl.RefillTokens != 1 || rl.RefillInterval != 2*time.Second {
        t.Fatalf("unexpected bucket %+v", rl)
    }
    if rl.TTL != 10*time.Second {
        t.Fatalf("TTL = %v, want it raised to 5 refill intervals", rl.TTL)
    }
    if !rl.ExemptPaths["/healthz"] || !rl.ExemptPaths["/metrics"] {
        t.Fatalf("ExemptPaths = %v", rl.ExemptPaths)
    }
}

func TestCacheMethodsUpperCased(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")
    cc := LoadCacheConfig()
    if !cc.Methods["GET"] || !cc.Methods["HEAD"] || len(cc.Methods) != 2 {
        t.Fatalf("Methods = %v", cc.Methods)
    }
}

func TestNewRedisClient(t *testing.T) {
    mr := miniredis.RunT(t)
    t.Setenv("REDIS_HOST", "")
    t.Setenv("REDIS_ADDR", mr.Addr())
    client, err := NewRedisClient(LoadRedisConfig())
    if err != nil {
        t.Fatalf("NewRedisClient: %v", err)
    }
    defer client.Close()

    mr.Close()
    if _, err := NewRedisClient(RedisConfig{Addr: mr.Addr()}); err == nil {
        t.Fatal("expected an error once the server is gone")
    }
}

func TestRateLimitNormalize(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "bogus")
    t.Setenv("RATE_LIMIT_TTL", "")
    t.Setenv("RATE_LIMIT_DEBUG", "on")
    rl := LoadRateLimitConfig()
    if rl.Capacity != 1 || rl.RefillTokens != 1 || rl.RefillInterval != time.Second {
        t.Fatalf("bucket = %d/%d per %v", rl.Capacity, rl.RefillTokens, rl.RefillInterval)
    }
    if rl.TTL != 10*time.Minute || rl.KeyStrategy != "ip_route" || !rl.Debug {
        t.Fatalf("got %+v", rl)
    }
}
