package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"field-dispatch-service/internal/ports"
)

const (
	keyPrefix = "dist:"
	entryTTL  = 30 * 24 * time.Hour
)

type cachedResult struct {
	Km   float64 `json:"km"`
	Mins float64 `json:"mins"`
}

// RedisDistanceCache is a Redis-backed cache for origin->destination distance
// results, shared across optimizer runs and service restarts.
type RedisDistanceCache struct {
	RDB *redis.Client
}

func NewRedisDistanceCache(rdb *redis.Client) *RedisDistanceCache {
	return &RedisDistanceCache{RDB: rdb}
}

func key(origin, destination string) string {
	return keyPrefix + origin + "|" + destination
}

// Fetch cached distances for one origin and multiple destinations.
func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (map[string]ports.DistanceResult, error) {
	if c.RDB == nil {
		return nil, errors.New("distance cache: redis client is nil")
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

	keys := make([]string, 0, len(uniq))
	for _, d := range uniq {
		keys = append(keys, key(origin, d))
	}

	values, err := c.RDB.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: mget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range values {
		if v == nil {
			continue
		}

		raw, ok := v.(string)
		if !ok {
			continue
		}

		var entry cachedResult
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			// A corrupt entry is treated as a miss rather than failing the run.
			continue
		}

		out[uniq[i]] = ports.DistanceResult{
			DistanceKm:   entry.Km,
			DurationMins: entry.Mins,
		}
	}

	return out, nil
}

// Store many cached distance results for a single origin.
func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if c.RDB == nil {
		return errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := c.RDB.Pipeline()
	for d, r := range results {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}

		payload, err := json.Marshal(cachedResult{Km: r.DistanceKm, Mins: r.DurationMins})
		if err != nil {
			return fmt.Errorf("insert distance cache: marshal entry for %q: %w", d, err)
		}

		pipe.Set(ctx, key(origin, d), payload, entryTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: pipeline exec: %w", err)
	}

	return nil
}
