package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"field-dispatch-service/internal/adapters/cache"
	"field-dispatch-service/internal/adapters/orderstore"
	"field-dispatch-service/internal/adapters/routing"
	"field-dispatch-service/internal/api"
	"field-dispatch-service/internal/config"
	"field-dispatch-service/internal/platform/logger"
	"field-dispatch-service/internal/ports"
	"field-dispatch-service/internal/services/dispatch"
	"field-dispatch-service/internal/services/optimize"
	"field-dispatch-service/internal/tracking"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, the routing HTTP service)
// behind ports and starts the HTTP server.
func main() {
	cfg := config.Load()

	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		log.Fatal("postgres init failed", zap.Error(err))
	}
	if pool != nil {
		defer pool.Close()
	}

	store := orderStore(pool, log)
	distanceCache, err := pickDistanceCache(ctx, cfg, pool, log)
	if err != nil {
		log.Fatal("distance cache init failed", zap.Error(err))
	}

	provider, err := routing.NewClient(cfg.RouteServiceURL, cfg.RouteServiceKey, distanceCache, log)
	if err != nil {
		log.Fatal("routing client init failed", zap.Error(err))
	}

	scheduler := dispatch.NewScheduler(store, provider, cfg.HubAddress, log)
	optimizer := optimize.NewOptimizer(store, provider, log)
	tracker := tracking.NewManager(store, provider, time.Duration(cfg.GPSSampleSeconds)*time.Second, log)

	router := api.NewRouter(store, provider, scheduler, optimizer, tracker, cfg.HubAddress, log)

	// Timeouts are tuned for cold-cache route optimization (external API latency).
	addr := fmt.Sprintf(":%d", cfg.AppPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// openPool connects to Postgres when DATABASE_URL is set and prepares the
// order schema. A nil pool means the in-memory store is in play.
func openPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}
	if err := orderstore.InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func orderStore(pool *pgxpool.Pool, log *zap.Logger) ports.OrderStore {
	if pool == nil {
		log.Info("using in-memory order store")
		return orderstore.NewMemoryOrderStore()
	}
	log.Info("using postgres order store")
	return orderstore.NewPgOrderStore(pool)
}

func pickDistanceCache(
	ctx context.Context,
	cfg config.Config,
	pool *pgxpool.Pool,
	log *zap.Logger,
) (ports.DistanceCache, error) {
	if cfg.DistanceCache == "postgres" {
		if pool == nil {
			return nil, fmt.Errorf("distance cache %q requires DATABASE_URL", cfg.DistanceCache)
		}
		if err := cache.InitDistanceCacheSchema(ctx, pool); err != nil {
			return nil, err
		}
		log.Info("using postgres distance cache")
		return cache.NewPgDistanceCache(pool), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Distance lookups still work uncached; worth a loud note, not a crash.
		log.Warn("redis unreachable, distance lookups run uncached", zap.Error(err))
	}
	log.Info("using redis distance cache")
	return cache.NewRedisDistanceCache(rdb), nil
}
