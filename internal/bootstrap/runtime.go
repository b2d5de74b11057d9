// Package bootstrap establishes runtime dependencies (database, Redis,
// object storage) and performs explicit startup provisioning.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"modam/internal/cache"
	"modam/internal/config"
	"modam/internal/database"
	"modam/internal/models"
	"modam/internal/seed"
	"modam/internal/storage"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to the database, Redis, and object storage,
// ensures the reserved admin account and storage buckets, and optionally
// seeds demo data. The returned handles are meant to be passed to
// server.NewServerWithDeps.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, storage.ObjectStore, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// May yield a nil client if Redis is unreachable; the app runs
	// degraded without it.
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	store, err := storage.NewS3Store(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("object storage init failed: %w", err)
	}

	if err := ensureAdminAccount(cfg, db); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	ensureBuckets(store)

	if opts.SeedDemoData {
		if err := seed.Run(db, seed.Options{NumUsers: 20, NumPosts: 40}); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, store, nil
}

// ensureAdminAccount makes the reserved admin username carry the admin
// flag. The username string is consulted here and at signup only; every
// authorization check afterwards reads the flag.
func ensureAdminAccount(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		findErr := tx.First(&profile, "username = ?", models.AdminUsername).Error

		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			if cfg.AdminPassword == "" {
				// Nothing to promote and no credentials to create with.
				return nil
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash admin password: %w", err)
			}
			user := models.User{
				Email:    "admin@modam.local",
				Password: string(hashed),
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Create(&models.Profile{
				UserID:   user.ID,
				Username: models.AdminUsername,
				Nickname: models.AdminNickname,
				Role:     models.RoleOwner,
				IsAdmin:  true,
			}).Error

		case findErr != nil:
			return findErr

		default:
			if profile.IsAdmin && profile.Nickname == models.AdminNickname {
				return nil
			}
			return tx.Model(&models.Profile{}).
				Where("user_id = ?", profile.UserID).
				Updates(map[string]any{
					"is_admin": true,
					"nickname": models.AdminNickname,
				}).Error
		}
	})
}

// ensureBuckets provisions the storage buckets best-effort. A missing
// bucket surfaces later as tolerated upload failures, not a dead server.
func ensureBuckets(store storage.ObjectStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, bucket := range []string{storage.CommunityBucket, storage.AvatarBucket} {
		if err := store.EnsureBucket(ctx, bucket); err != nil {
			log.Printf("could not ensure bucket %s: %v", bucket, err)
		}
	}
}
