package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// Backend selects the persistence wiring: "mongo" (with redis dedupe)
	// or "memory" (standalone, everything in-process).
	Backend string `env:"BACKEND, default=mongo"`

	// ResolutionMode fixes how clients are resolved for this deployment:
	// "domain" or "client_id". There is no fallback between the two.
	ResolutionMode string `env:"RESOLUTION_MODE, default=domain"`

	// DirectoryTTL bounds how stale the cached client snapshot may get.
	DirectoryTTL time.Duration `env:"DIRECTORY_TTL, default=60s"`
	// DedupWindow is the lead dedupe retention window.
	DedupWindow time.Duration `env:"DEDUP_WINDOW, default=24h"`

	// PopupTitle and PopupText are deployment defaults used when a client
	// record does not carry its own.
	PopupTitle string `env:"POPUP_TITLE, default=Wait! Here's a coupon"`
	PopupText  string `env:"POPUP_TEXT,  default=Leave your email and save on your first order."`

	RateRPS   float64 `env:"RATE_RPS,   default=5"`
	RateBurst int     `env:"RATE_BURST, default=10"`

	NotifyWorkers int `env:"NOTIFY_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=popup_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Backend != "mongo" && cfg.Backend != "memory" {
		return nil, fmt.Errorf("config: unknown BACKEND %q", cfg.Backend)
	}
	if cfg.ResolutionMode != "domain" && cfg.ResolutionMode != "client_id" {
		return nil, fmt.Errorf("config: unknown RESOLUTION_MODE %q", cfg.ResolutionMode)
	}
	return &cfg, nil
}
