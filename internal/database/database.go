package database

import (
	"fmt"
	"log"

	"inversiones-bot/internal/config"
	"inversiones-bot/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes the database connection. The default deployment is a
// single sqlite file; postgres is selectable via DB_DRIVER for hosted setups.
func Connect(cfg *config.Config) error {
	var err error

	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	switch cfg.Database.Driver {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(cfg.GetDSN()), gormCfg)
	case "sqlite", "":
		DB, err = gorm.Open(sqlite.Open(cfg.Database.Path), gormCfg)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	for _, model := range []interface{}{
		&models.User{},
		&models.Investment{},
	} {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("migration failed for %T: %w", model, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
