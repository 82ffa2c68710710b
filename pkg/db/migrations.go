package db

import (
	"errors"
	"fmt"
	"time"

	applog "gatekeeper-api/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// MigrationConfig selects how the schema is brought up to date
type MigrationConfig struct {
	// Directory holding NNNNNN_name.{up,down}.sql files
	MigrationsPath string

	// Use gorm AutoMigrate on the given models instead of SQL files
	AutoMigrateModels bool

	// 0 means latest
	TargetVersion uint
}

// NewMigrationConfig returns a config that applies every SQL file under path
func NewMigrationConfig(path string) *MigrationConfig {
	if path == "" {
		path = "migrations"
	}
	return &MigrationConfig{MigrationsPath: path}
}

// RunMigrations brings the shared connection's schema up to date
func RunMigrations(cfg *MigrationConfig, log *applog.Logger, models ...any) error {
	if DB == nil {
		return errNotInitialized
	}
	start := time.Now()

	if cfg.AutoMigrateModels && len(models) > 0 {
		if err := DB.AutoMigrate(models...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		log.WithField("took", time.Since(start).String()).Info("Auto-migration completed")
		return nil
	}

	m, err := newMigrator(cfg.MigrationsPath)
	if err != nil {
		return err
	}

	if cfg.TargetVersion > 0 {
		err = m.Migrate(cfg.TargetVersion)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}

	log.WithFields(logrus.Fields{
		"version": version,
		"took":    time.Since(start).String(),
	}).Info("Schema migrations applied")
	return nil
}

func newMigrator(path string) (*migrate.Migrate, error) {
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migration source %s: %w", path, err)
	}
	return m, nil
}
