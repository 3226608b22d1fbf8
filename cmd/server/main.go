package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/iliyamo/event-ticketing/internal/clock"
	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/router"
	queue_publisher "github.com/iliyamo/event-ticketing/internal/service"
	"github.com/iliyamo/event-ticketing/internal/ticketing"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	var envFile, port, backend string
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVar(&port, "port", "", "HTTP port (overrides APP_PORT)")
	flags.StringVar(&backend, "backend", "", "storage backend: memory, sqlite, mysql or redis (overrides STORAGE_BACKEND)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// A missing .env is normal outside development.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: load %s: %v", envFile, err)
	}
	if backend != "" {
		os.Setenv("STORAGE_BACKEND", backend)
	}
	cfg := config.Load()
	if port != "" {
		cfg.Port = port
	}
	mode, err := ticketing.ParseRollbackMode(cfg.RollbackMode)
	if err != nil {
		return fmt.Errorf("TICKET_ROLLBACK_MODE: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	var rdb *redis.Client
	if cfg.Backend == config.BackendRedis || cacheCfg.Enabled || rlCfg.Enabled {
		rdb, err = config.NewRedisClient(config.LoadRedisConfig())
		if err != nil {
			if cfg.Backend == config.BackendRedis {
				return err
			}
			log.Printf("redis: %v; caching and rate limiting disabled", err)
		} else {
			defer rdb.Close()
		}
	}

	kvBackend, closeBackend, err := openBackend(cfg, rdb)
	if err != nil {
		return err
	}
	defer closeBackend()
	store, err := repository.Open(ctx, kvBackend)
	if err != nil {
		return err
	}
	svc := ticketing.NewService(store, clock.NewSystem(), ticketing.WithRollbackMode(mode))

	var pub handler.Publisher
	if cfg.AMQPEnabled {
		pub = queue_publisher.New(cfg.AMQPURL)
		go func() {
			if err := queue.StartTicketConsumer(ctx, cfg.AMQPURL, cfg.TicketLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("ticket-consumer: stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	router.RegisterRoutes(e, handler.New(svc, pub),
		middleware.NewTokenBucket(rlCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s backend=%s rollback=%s)", addr, cfg.Env, cfg.Backend, mode)
	errc := make(chan error, 1)
	go func() { errc <- e.Start(addr) }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Printf("shutting down")
	return e.Shutdown(shutdownCtx)
}
