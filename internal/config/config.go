package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	AppPort int

	RouteServiceURL string
	RouteServiceKey string
	HubAddress      string

	// DatabaseURL selects the Postgres order store; empty keeps the
	// in-memory store for local runs and tests.
	DatabaseURL string

	// DistanceCache picks the cache backend: "redis" or "postgres".
	// Postgres requires DatabaseURL to be set.
	DistanceCache string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	GPSSampleSeconds int
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "field-dispatch"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "info"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 8080))

	cfg.RouteServiceURL = cast.ToString(getOrReturnDefault("ROUTE_SERVICE_URL", "http://localhost:9090"))
	cfg.RouteServiceKey = cast.ToString(getOrReturnDefault("ROUTE_SERVICE_KEY", ""))
	cfg.HubAddress = cast.ToString(getOrReturnDefault("HUB_ADDRESS", "12 Rue du Four, 75006 Paris"))

	cfg.DatabaseURL = cast.ToString(getOrReturnDefault("DATABASE_URL", ""))
	cfg.DistanceCache = cast.ToString(getOrReturnDefault("DISTANCE_CACHE", "redis"))

	cfg.RedisHost = cast.ToString(getOrReturnDefault("REDIS_HOST", "localhost"))
	cfg.RedisPort = cast.ToString(getOrReturnDefault("REDIS_PORT", "6379"))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))

	cfg.GPSSampleSeconds = cast.ToInt(getOrReturnDefault("GPS_SAMPLE_SECONDS", 30))

	return cfg
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
