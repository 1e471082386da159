package bootstrap

import (
	"fmt"
	"log"

	"bandmate/internal/cache"
	"bandmate/internal/config"
	"bandmate/internal/database"
	"bandmate/internal/models"
	"bandmate/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to the database and Redis and optionally seeds
// demo data. Redis being unreachable is not fatal; the cache degrades
// to a nil client and every cached path falls through to the database.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		if err := ensureDemoData(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

// ensureDemoData seeds a development database once. A populated profiles
// table means a previous run already seeded; production never seeds.
func ensureDemoData(cfg *config.Config, db *gorm.DB) error {
	if cfg.Env == "production" || cfg.Env == "prod" {
		return nil
	}

	var count int64
	if err := db.Model(&models.Profile{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("demo seed skipped: profiles already present")
		return nil
	}

	return seed.Seed(db, seed.Options{NumProfiles: 24, NumOpportunities: 30})
}
