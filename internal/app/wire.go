package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	s3blob "github.com/alanyoungcy/cpmmquote/internal/blob/s3"
	"github.com/alanyoungcy/cpmmquote/internal/cache/redis"
	"github.com/alanyoungcy/cpmmquote/internal/config"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
	"github.com/alanyoungcy/cpmmquote/internal/server/handler"
	"github.com/alanyoungcy/cpmmquote/internal/store/postgres"
)

// Dependencies bundles the concrete implementations the modes need. Fields
// for backends a mode does not use stay nil.
type Dependencies struct {
	// Stores
	MarketStore    domain.MarketStore
	OrderBookStore domain.OrderBookStore

	// Caches
	OddsCache domain.OddsCache
	BookCache domain.BookCache

	// Blob storage
	BlobReader domain.BlobReader

	// Probes reported by the health endpoint.
	Health map[string]handler.Pinger
}

func needsPostgres(mode string) bool { return mode == "server" }

func needsS3(mode string) bool { return mode == "replay" }

// Wire constructs all concrete dependency implementations from cfg and returns
// them together with a cleanup function that releases them in reverse order.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	mode := strings.ToLower(cfg.Mode)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{Health: map[string]handler.Pinger{}}

	// --- PostgreSQL ---
	if needsPostgres(mode) {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: postgres: %w", err)
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				cleanup()
				return nil, nil, fmt.Errorf("wire: postgres migrations: %w", err)
			}
		}

		pool := pgClient.Pool()
		deps.MarketStore = postgres.NewMarketStore(pool)
		deps.OrderBookStore = postgres.NewOrderBookStore(pool)
		deps.Health["postgres"] = pgClient
	}

	// --- Redis (optional; services fall back to the store) ---
	if cfg.Redis.Enabled && needsPostgres(mode) {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			logger.WarnContext(ctx, "wire: redis unavailable, caching disabled",
				slog.String("addr", cfg.Redis.Addr),
				slog.String("error", err.Error()),
			)
		} else {
			closers = append(closers, func() { _ = redisClient.Close() })
			deps.OddsCache = redis.NewOddsCache(redisClient, cfg.Redis.OddsTTL.Duration)
			deps.BookCache = redis.NewBookCache(redisClient, cfg.Redis.BookTTL.Duration)
			deps.Health["redis"] = redisClient
		}
	}

	// --- S3 blob storage ---
	if needsS3(mode) {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}
		closers = append(closers, func() { _ = s3Client.Close() })
		deps.BlobReader = s3blob.NewReader(s3Client)
		deps.Health["s3"] = s3Client
	}

	return deps, cleanup, nil
}
