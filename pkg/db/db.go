package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	applog "gatekeeper-api/internal/logger"
	config "gatekeeper-api/pkg/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	slowQueryThreshold = 500 * time.Millisecond
	healthTimeout      = 3 * time.Second
)

var (
	// DB is the shared connection, set by Initialize
	DB *gorm.DB

	once sync.Once
)

var errNotInitialized = errors.New("database not initialized")

// Initialize opens the pool once; later calls return the first result
func Initialize(cfg *config.DatabaseConfig, log *applog.Logger) error {
	var err error
	once.Do(func() {
		DB, err = Open(cfg, log)
	})
	return err
}

// Open connects to Postgres, applies the pool limits and pings within ConnectTimeout.
// gorm's own logging is routed through log at warn level.
func Open(cfg *config.DatabaseConfig, log *applog.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.GetDatabaseURL()), &gorm.Config{
		Logger:                 newGormLogger(log),
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.PrepareCached,
		TranslateError:         true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.PoolMinSize)
	sqlDB.SetMaxOpenConns(cfg.PoolMaxSize)
	sqlDB.SetConnMaxIdleTime(cfg.MaxIdleTime)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.WithFields(logrus.Fields{
		"host":     cfg.Host,
		"database": cfg.Name,
		"pool_min": cfg.PoolMinSize,
		"pool_max": cfg.PoolMaxSize,
	}).Info("Connected to database")
	return conn, nil
}

func newGormLogger(log *applog.Logger) gormlogger.Interface {
	return gormlogger.New(
		log.WithField("component", "gorm"),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// GetDB returns the shared connection.
// Panics if Initialize has not succeeded.
func GetDB() *gorm.DB {
	if DB == nil {
		panic("Database not initialized. Call Initialize() first")
	}
	return DB
}

// Close releases the shared pool; a nil DB is a no-op
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	return sqlDB.Close()
}

// Health pings the shared pool
func Health(ctx context.Context) error {
	if DB == nil {
		return errNotInitialized
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}
