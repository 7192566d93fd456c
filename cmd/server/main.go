package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/panelbunker/tracking-api/internal/api"
	"github.com/panelbunker/tracking-api/internal/api/handler"
	"github.com/panelbunker/tracking-api/internal/api/middleware"
	"github.com/panelbunker/tracking-api/internal/core/ports"
	"github.com/panelbunker/tracking-api/internal/core/service"
	"github.com/panelbunker/tracking-api/internal/infrastructure/config"
	"github.com/panelbunker/tracking-api/internal/infrastructure/db/memory"
	mongodb "github.com/panelbunker/tracking-api/internal/infrastructure/db/mongo"
	"github.com/panelbunker/tracking-api/internal/infrastructure/db/postgres"
	redisdb "github.com/panelbunker/tracking-api/internal/infrastructure/db/redis"
	"github.com/panelbunker/tracking-api/internal/infrastructure/notify"
	"github.com/panelbunker/tracking-api/pkg/logger"
)

func main() {
	// Missing .env is fine; real deployments configure the environment directly.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.AdminToken == "" {
		log.Warn().Msg("ADMIN_TOKEN not set, all admin endpoints will refuse requests")
	}

	// --- Tracking store ---
	var (
		store  ports.TrackingStore
		routes ports.RouteStore
		pings  = map[string]handler.PingFunc{}
	)
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer pool.Close()
		store = postgres.NewTrackingStore(pool)
		routes = postgres.NewRouteStore(pool)
		pings["postgres"] = pool.Ping
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		mongoStore := mongodb.NewTrackingStore(db)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo index creation failed")
		}
		store = mongoStore
		routes = memory.NewRouteStore()
		pings["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	case "memory":
		store = memory.NewTrackingStore()
		routes = memory.NewRouteStore()
	default:
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("unknown store driver")
	}

	// --- Rate limiter (optional) ---
	var limiter middleware.Limiter
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()
		limiter = redisdb.NewRateLimiter(rdb)
		pings["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// --- Notifications ---
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Telegram.BotToken != "" {
		notifier = notify.NewTelegramNotifier(cfg.Telegram.BotToken, log)
	}
	dispatcher := notify.NewDispatcher(cfg.Telegram.NotifyWorkers, notifier, log)
	dispatcher.Start(ctx)

	// --- Services ---
	estimator := service.NewDeliveryEstimator(routes, log)
	trackingService := service.NewTrackingService(store, estimator, log)
	statusService := service.NewStatusService(store, estimator, dispatcher, log)

	e := api.NewRouter(api.RouterOpts{
		Trackings:      trackingService,
		Status:         statusService,
		AdminToken:     cfg.AdminToken,
		Limiter:        limiter,
		LookupLimit:    cfg.Lookup.RateLimit,
		LookupWindow:   time.Duration(cfg.Lookup.WindowSeconds) * time.Second,
		ReadinessPings: pings,
		Logger:         log,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Msg("tracking api listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
