package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"field-dispatch-service/internal/ports"
)

// PgDistanceCache is a Postgres-backed cache for origin->destination distance
// results. It is the durable alternative to the Redis cache for deployments
// that already run Postgres for the order store.
type PgDistanceCache struct {
	Pool *pgxpool.Pool
}

func NewPgDistanceCache(pool *pgxpool.Pool) *PgDistanceCache {
	return &PgDistanceCache{Pool: pool}
}

// InitDistanceCacheSchema creates the cache table when it does not exist yet.
func InitDistanceCacheSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS distance_cache (
			origin      TEXT NOT NULL,
			destination TEXT NOT NULL,
			distance_km FLOAT8 NOT NULL,
			duration_mins FLOAT8 NOT NULL,
			PRIMARY KEY (origin, destination)
		);
	`)
	if err != nil {
		return fmt.Errorf("distance cache: init schema: %w", err)
	}
	return nil
}

// Fetch cached distances for one origin and multiple destinations.
func (c *PgDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]ports.DistanceResult, error) {
	if c.Pool == nil {
		return nil, errors.New("distance cache: pool is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	if len(destinations) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(destinations))
	for _, d := range destinations {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}

		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		uniq = append(uniq, d)
	}

	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	rows, err := c.Pool.Query(ctx, `
		SELECT destination, distance_km, duration_mins
		FROM distance_cache
		WHERE origin = $1
			AND destination = ANY($2::text[]);
	`, origin, uniq)
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query distance_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.DistanceResult, len(uniq))
	for rows.Next() {
		var dest string
		var km, mins float64
		if err := rows.Scan(&dest, &km, &mins); err != nil {
			return nil, fmt.Errorf("get distance cache: scan rows: %w", err)
		}
		out[dest] = ports.DistanceResult{
			DistanceKm:   km,
			DurationMins: mins,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (c *PgDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if c.Pool == nil {
		return errors.New("distance cache: pool is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for dest, r := range results {
		dest = strings.TrimSpace(dest)
		if dest == "" {
			return fmt.Errorf("insert distance cache: empty destination key")
		}

		batch.Queue(`
			INSERT INTO distance_cache (origin, destination, distance_km, duration_mins)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (origin, destination) DO UPDATE
			SET distance_km = EXCLUDED.distance_km,
				duration_mins = EXCLUDED.duration_mins;
		`, origin, dest, r.DistanceKm, r.DurationMins)
	}

	if err := c.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert distance cache: batch exec: %w", err)
	}

	return nil
}
