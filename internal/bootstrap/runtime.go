// Package bootstrap wires the process-wide runtime shared by the commands.
package bootstrap

import (
	"fmt"

	"toolkit/internal/cache"
	"toolkit/internal/config"
	"toolkit/internal/database"
	"toolkit/internal/middleware"
	"toolkit/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedCatalog bool
}

// InitRuntime connects to the database and Redis and optionally loads the built-in catalog.
// The Redis client is nil when Redis is unreachable; readiness reports it.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()
	if r == nil {
		middleware.Logger.Warn("redis unavailable, sign-in and rate limiting are degraded")
	}

	if opts.SeedCatalog {
		if err := seed.BuiltIns(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in catalog: %w", err)
		}
	}

	return db, r, nil
}
