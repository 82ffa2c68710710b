package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatekeeper-api/internal/blacklist"
	applog "gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/models"
	"gatekeeper-api/pkg/config"
	"gatekeeper-api/pkg/db"
	"gatekeeper-api/pkg/redis"
	"gatekeeper-api/router"

	"golang.org/x/sync/errgroup"
)

const blacklistPurgeInterval = time.Hour

func main() {
	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("Loading configuration...")
	appConfig := config.LoadConfig()

	logger, err := router.InitLogger(appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	backends, err := connectBackends(ctx, appConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect backing stores")
	}

	if backends.Database != nil && appConfig.Database.MigrateOnBoot {
		if err := migrate(appConfig, logger); err != nil {
			logger.WithError(err).Fatal("Failed to run database migrations")
		}
	}

	ginEngine, err := router.SetupRouter(appConfig, backends)
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up router")
	}

	requestTimeout := time.Duration(appConfig.RequestTimeout) * time.Second
	srv := &http.Server{
		Addr:              appConfig.Host + ":" + appConfig.Port,
		Handler:           ginEngine,
		ReadHeaderTimeout: requestTimeout,
		ReadTimeout:       requestTimeout,
		WriteTimeout:      requestTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("Server started on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if purger, ok := router.BlacklistPurger(); ok {
		g.Go(func() error {
			blacklist.RunPurger(gctx, purger, blacklistPurgeInterval, logger)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownTimeout := time.Duration(appConfig.ShutdownTimeout) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Server stopped with error")
	}

	closeBackends(logger)
	logger.Info("Shutdown complete")
}

// connectBackends opens Postgres and Redis concurrently, each only when the configuration needs it
func connectBackends(ctx context.Context, cfg *config.AppConfig, logger *applog.Logger) (router.Backends, error) {
	var backends router.Backends
	g, gctx := errgroup.WithContext(ctx)

	if cfg.UsesDatabase() {
		g.Go(func() error {
			if err := db.Initialize(cfg.Database, logger); err != nil {
				return err
			}
			backends.Database = db.GetDB()
			return nil
		})
	}

	if cfg.UsesRedis() {
		g.Go(func() error {
			redis.InitDefault(cfg.Redis)
			client := redis.GetDefault()
			if err := client.Ping(gctx); err != nil {
				return err
			}
			backends.Redis = client
			logger.WithField("addr", cfg.Redis.Addr()).Info("Connected to Redis")
			return nil
		})
	}

	return backends, g.Wait()
}

// migrate applies the schema: gorm auto-migration in development, SQL files elsewhere
func migrate(cfg *config.AppConfig, logger *applog.Logger) error {
	migrationCfg := db.NewMigrationConfig(cfg.Database.MigrationsPath)

	if cfg.IsDevelopment() {
		migrationCfg.AutoMigrateModels = true
		return db.RunMigrations(migrationCfg, logger, &models.User{}, &models.BlacklistedToken{})
	}
	return db.RunMigrations(migrationCfg, logger)
}

func closeBackends(logger *applog.Logger) {
	if err := db.Close(); err != nil {
		logger.WithError(err).Warn("Error closing database connection")
	}
	redis.CloseAll()
}
