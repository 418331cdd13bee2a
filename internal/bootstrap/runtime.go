// Package bootstrap brings up the process-wide dependencies shared by the
// command binaries: logging, tracing, the database and Redis.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"devconnect/internal/cache"
	"devconnect/internal/config"
	"devconnect/internal/database"
	"devconnect/internal/middleware"
	"devconnect/internal/models"
	"devconnect/internal/observability"
	"devconnect/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty development database with demo data.
	SeedDemo bool
}

// Runtime is what InitRuntime brought up.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime configures logging and tracing, connects the database and
// Redis, and optionally seeds demo data. Redis is optional: a nil client
// means it was unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	middleware.InitLogger(cfg.Env, cfg.LogLevel)

	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "devconnect-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	rt := &Runtime{DB: db, Redis: cache.GetClient(), shutdownTracing: shutdown}

	if opts.SeedDemo {
		if err := seedIfEmpty(ctx, cfg, db); err != nil {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("demo seeding failed: %w", err)
		}
	}

	return rt, nil
}

// Close flushes traces and releases the database and Redis.
func (r *Runtime) Close(ctx context.Context) error {
	var firstErr error
	if r.shutdownTracing != nil {
		if err := r.shutdownTracing(ctx); err != nil {
			firstErr = err
		}
	}
	if err := database.Close(r.DB); err != nil && firstErr == nil {
		firstErr = err
	}
	if r.Redis != nil {
		if err := cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func seedIfEmpty(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || cfg.Env != "development" {
		return nil
	}

	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		return nil
	}

	res, err := seed.Seed(ctx, db, seed.Options{NumUsers: 10, NumPosts: 30})
	if err != nil {
		return err
	}
	log.Printf("seeded empty development database: %d users, %d posts (password %q)",
		res.Users, res.Posts, seed.DefaultPassword)
	return nil
}
