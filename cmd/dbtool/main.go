package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"field-dispatch-service/internal/adapters/orderstore"
	"field-dispatch-service/internal/config"
	"field-dispatch-service/internal/domain"
	"field-dispatch-service/internal/platform/logger"
)

// dbtool initializes the Postgres schema and seeds order records from a JSON
// file. Meant for local setups and demo environments; the portal owns order
// creation in production.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName+"-dbtool", cfg.LoggerLevel)
	defer log.Sync() //nolint:errcheck

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		seedPath = "data/seeds/orders.json"
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open postgres pool failed", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal("postgres unreachable", zap.Error(err))
	}

	log.Info("initializing schema")
	if err := orderstore.InitSchema(ctx, pool); err != nil {
		log.Fatal("schema initialization failed", zap.Error(err))
	}

	log.Info("seeding orders", zap.String("path", seedPath))
	n, err := seedFromJSON(ctx, orderstore.NewPgOrderStore(pool), seedPath)
	if err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("seeding complete", zap.Int("orders", n))
}

func seedFromJSON(ctx context.Context, store *orderstore.PgOrderStore, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file %q: %w", path, err)
	}

	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		return 0, fmt.Errorf("decode seed file %q: %w", path, err)
	}

	for _, order := range orders {
		if order.OrderNumber == "" {
			return 0, fmt.Errorf("seed file %q: order without order_number", path)
		}
		if err := store.InsertOrder(ctx, order); err != nil {
			return 0, err
		}
	}
	return len(orders), nil
}
