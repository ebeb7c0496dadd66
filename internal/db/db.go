// Package db connects to the database and runs schema migrations.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/curata-dev/curata/internal/config"
	"github.com/curata-dev/curata/internal/models"
)

// Connect opens the configured database, applies the connection-pool bounds
// and registers the junction join tables.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	switch cfg.Driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	default:
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
			if err == nil {
				break
			}
			log.Println("Retrying DB connection...", err)
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleSec) * time.Second)

	if err := RegisterJoinTables(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RegisterJoinTables binds the explicit junction models to the many2many
// relations so conflict-ignore inserts and Preload share one schema.
func RegisterJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Profile{}, "Subcategories", &models.ProfileSubcategory{}); err != nil {
		return fmt.Errorf("register profile_subcategories: %w", err)
	}
	if err := db.SetupJoinTable(&models.Profile{}, "Tags", &models.ProfileTag{}); err != nil {
		return fmt.Errorf("register profile_tags: %w", err)
	}
	return nil
}
