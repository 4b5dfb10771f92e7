// Package bootstrap wires the process-wide runtime: database, Redis and optional demo data.
package bootstrap

import (
	"context"
	"fmt"

	"ruya/internal/cache"
	"ruya/internal/config"
	"ruya/internal/database"
	"ruya/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Seed, when non-nil, populates demo data after connecting.
	Seed *seed.Options
}

// InitRuntime connects to the database and Redis and optionally seeds.
// Redis is optional; the returned client is nil when it is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.Seed != nil {
		if cfg.IsProduction() {
			return nil, nil, fmt.Errorf("refusing to seed demo data in production")
		}
		if _, err := seed.NewSeeder(db, *opts.Seed).Run(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}
