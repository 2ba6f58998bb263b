package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies CPMMQ_* environment variable overrides, and
// returns the final Config. An empty path skips the file. The returned Config
// has NOT been validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// applyEnvOverrides overwrites Config fields from CPMMQ_* variables that are
// set and non-empty.
func applyEnvOverrides(cfg *Config) {
	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "CPMMQ_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Postgres.Host, "CPMMQ_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "CPMMQ_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "CPMMQ_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "CPMMQ_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "CPMMQ_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "CPMMQ_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "CPMMQ_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "CPMMQ_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "CPMMQ_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "CPMMQ_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "CPMMQ_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "CPMMQ_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "CPMMQ_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "CPMMQ_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "CPMMQ_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "CPMMQ_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.OddsTTL, "CPMMQ_REDIS_ODDS_TTL")
	setDuration(&cfg.Redis.BookTTL, "CPMMQ_REDIS_BOOK_TTL")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "CPMMQ_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "CPMMQ_S3_REGION")
	setStr(&cfg.S3.Bucket, "CPMMQ_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "CPMMQ_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "CPMMQ_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "CPMMQ_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "CPMMQ_S3_FORCE_PATH_STYLE")
	setStr(&cfg.S3.SnapshotPrefix, "CPMMQ_S3_SNAPSHOT_PREFIX")

	// ── Server ──
	setInt(&cfg.Server.Port, "CPMMQ_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "CPMMQ_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "CPMMQ_SERVER_API_KEY")

	// ── Quote ──
	setInt(&cfg.Quote.BookDepth, "CPMMQ_QUOTE_BOOK_DEPTH")
	setDuration(&cfg.Quote.WarmInterval, "CPMMQ_QUOTE_WARM_INTERVAL")
	setFloat64(&cfg.Quote.ReplayQuantity, "CPMMQ_QUOTE_REPLAY_QUANTITY")
	setInt(&cfg.Quote.ReplayConcurrency, "CPMMQ_QUOTE_REPLAY_CONCURRENCY")

	// ── Top-level ──
	setStr(&cfg.Mode, "CPMMQ_MODE")
	setStr(&cfg.LogLevel, "CPMMQ_LOG_LEVEL")
}

// Typed env-var helpers. Each only mutates the target when the variable is
// present, non-empty and parses.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
