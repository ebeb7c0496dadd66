package db

import (
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/config"
	"github.com/curata-dev/curata/internal/models"
)

// Migrate brings the schema up to date. With MIGRATIONS enabled it runs the
// SQL migrations via golang-migrate (postgres only); otherwise it falls back
// to AutoMigrate, which is enough for development and sqlite.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if cfg.App.Migrations && cfg.Database.Driver != "sqlite" {
		return runSQLMigrations(cfg.Database.URL())
	}
	return AutoMigrate(db)
}

// AutoMigrate creates or updates every table from the model definitions.
func AutoMigrate(db *gorm.DB) error {
	if err := RegisterJoinTables(db); err != nil {
		return err
	}
	toMigrate := []any{
		&models.Category{}, &models.Subcategory{}, &models.Tag{},
		&models.Profile{}, &models.SocialLink{},
		&models.User{}, &models.Favorite{},
		&models.Submission{}, &models.SubmissionTag{}, &models.SubmissionSocialLink{},
	}
	for _, m := range toMigrate {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func runSQLMigrations(databaseURL string) error {
	m, err := migrate.New("file://migrations", databaseURL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() { _, _ = m.Close() }()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
