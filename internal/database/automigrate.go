package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"community-board-api/internal/domain"
)

// modelInfo holds information about a domain model and its table name
type modelInfo struct {
	model     interface{}
	tableName string
}

// allModels lists every domain model in dependency order so foreign key
// constraints resolve during migration
func allModels() []modelInfo {
	return []modelInfo{
		{&domain.Member{}, "members"},
		{&domain.ProfileImage{}, "profile_images"},
		{&domain.Category{}, "categories"},
		{&domain.Post{}, "posts"},
		{&domain.Comment{}, "comments"},
	}
}

// AutoMigrate runs GORM auto-migration for all domain models
func AutoMigrate(db *gorm.DB) error {
	models := allModels()
	targets := make([]interface{}, 0, len(models))
	for _, m := range models {
		targets = append(targets, m.model)
	}

	if err := db.AutoMigrate(targets...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}

// SafeAutoMigrate runs auto-migration model by model, logging whether each
// table already existed. Existing tables only get schema updates; missing
// ones are created from scratch.
func SafeAutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()
	models := allModels()

	logger.Info("Starting safe auto-migration",
		zap.Int("total_models", len(models)),
	)

	for _, m := range models {
		tableExists := migrator.HasTable(m.model)

		if err := db.AutoMigrate(m.model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("table", m.tableName),
				zap.Bool("table_existed", tableExists),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate table %s: %w", m.tableName, err)
		}

		logger.Info("Successfully migrated table",
			zap.String("table", m.tableName),
			zap.Bool("was_existing", tableExists),
		)
	}

	logger.Info("Safe auto-migration completed successfully",
		zap.Int("tables_migrated", len(models)),
	)

	return nil
}

// SafeAutoMigrateWithRetry runs SafeAutoMigrate with retry logic and a
// linear backoff between attempts
func SafeAutoMigrateWithRetry(db *gorm.DB, logger *zap.Logger, maxRetries int) error {
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = SafeAutoMigrate(db, logger)
		if err == nil {
			return nil
		}

		if attempt < maxRetries {
			backoffDuration := time.Duration(attempt) * time.Second
			logger.Warn("Migration attempt failed, retrying...",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", maxRetries),
				zap.Duration("backoff", backoffDuration),
				zap.Error(err),
			)
			time.Sleep(backoffDuration)
		}
	}

	return fmt.Errorf("migration failed after %d attempts: %w", maxRetries, err)
}

// SeedConfig holds the bootstrap admin credentials
type SeedConfig struct {
	AdminUsername string
	AdminPassword string
	AdminNickname string
}

// Seed inserts the base category tree and the admin account when they are
// missing. Safe to run on every startup.
func Seed(db *gorm.DB, cfg SeedConfig, logger *zap.Logger) error {
	return WithTransaction(db, func(tx *gorm.DB) error {
		var root domain.Category
		err := tx.Where("name = ?", domain.RootCategoryName).First(&root).Error
		if err == gorm.ErrRecordNotFound {
			root = domain.Category{Name: domain.RootCategoryName}
			if err := tx.Create(&root).Error; err != nil {
				return fmt.Errorf("failed to seed root category: %w", err)
			}
			for _, name := range []string{"FREE", "QNA"} {
				child := domain.Category{Name: name, ParentID: &root.ID}
				if err := tx.Create(&child).Error; err != nil {
					return fmt.Errorf("failed to seed category %s: %w", name, err)
				}
			}
			logger.Info("Seeded base categories")
		} else if err != nil {
			return fmt.Errorf("failed to check root category: %w", err)
		}

		if cfg.AdminUsername == "" {
			return nil
		}

		var count int64
		if err := tx.Model(&domain.Member{}).
			Where("username = ?", cfg.AdminUsername).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check admin account: %w", err)
		}
		if count > 0 {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := domain.NewMember(cfg.AdminUsername, string(hash), cfg.AdminNickname,
			domain.EmailAuth{Verified: true})
		admin.Role = domain.RoleAdmin
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin account: %w", err)
		}

		logger.Info("Seeded admin account", zap.String("username", cfg.AdminUsername))
		return nil
	})
}
