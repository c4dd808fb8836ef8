package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string
	CRDBDSN      string
	MongoURI     string
	MongoDB      string
	RedisAddr    string
	RabbitURL    string
	JWTSecret    string
	OTLPEndpoint string
	LogLevel     string
	AppEnv       string
	DebugAuth    bool

	FavoritesCacheTTL  time.Duration
	HoldSweepInterval  time.Duration
	HoldLockTTL        time.Duration
	OutboxPollInterval time.Duration
	IdempotencyTTL     time.Duration
	RateLimitPerMinute int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		CRDBDSN:      os.Getenv("CRDB_DSN"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      getenv("MONGO_DB", "booking"),
		RedisAddr:    getenv("REDIS_ADDR", "localhost:6379"),
		RabbitURL:    os.Getenv("RABBIT_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		AppEnv:       getenv("APP_ENV", "dev"),
	}

	var err error
	if cfg.DebugAuth, err = boolEnv("DEBUG_AUTH", false); err != nil {
		return nil, err
	}
	if cfg.FavoritesCacheTTL, err = durationEnv("FAVORITES_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HoldSweepInterval, err = durationEnv("HOLD_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.HoldLockTTL, err = durationEnv("HOLD_LOCK_TTL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.OutboxPollInterval, err = durationEnv("OUTBOX_POLL_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = intEnv("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate rejects combinations that must never reach production.
func (c *Config) Validate() error {
	if c.DebugAuth && strings.EqualFold(c.AppEnv, "prod") {
		return errors.New("DEBUG_AUTH must not be enabled when APP_ENV=prod")
	}
	if c.JWTSecret == "" && !c.DebugAuth {
		return errors.New("JWT_SECRET is required")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.Newf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", key)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "parse %s", key)
	}
	return b, nil
}
