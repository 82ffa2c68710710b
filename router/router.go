package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	authAPI "gatekeeper-api/api/v1/auth"
	csrfAPI "gatekeeper-api/api/v1/csrf"
	healthAPI "gatekeeper-api/api/v1/health"
	internalAuth "gatekeeper-api/internal/auth"
	"gatekeeper-api/internal/blacklist"
	jwt "gatekeeper-api/internal/jwt"
	log "gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/middleware"
	internalUser "gatekeeper-api/internal/user"
	"gatekeeper-api/pkg/config"
	"gatekeeper-api/pkg/db"
	"gatekeeper-api/pkg/redis"
	"gatekeeper-api/pkg/status"

	"github.com/getsentry/sentry-go"
	sentrylogrus "github.com/getsentry/sentry-go/logrus"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const csrfMaxAge = time.Hour

// Package-level services to avoid recreation
var (
	jwtService     *jwt.JWTService
	userService    *internalUser.Service
	authService    *internalAuth.Service
	blacklistStore blacklist.Store
	customLogger   *log.Logger
)

// Backends carries the optional connections; nil when the configuration does not need them
type Backends struct {
	Database *gorm.DB
	Redis    *redis.Client
}

// InitLogger builds the JSON logger and attaches the Sentry hook when a DSN is configured
func InitLogger(cfg *config.AppConfig) (*log.Logger, error) {
	customLogger = log.NewJSON(cfg.LogLevel)
	logger := customLogger.Logrus()

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     cfg.AppVersion,
		})
		if err != nil {
			return nil, errors.New("failed to initialize Sentry: " + err.Error())
		}

		levels := []logrus.Level{logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel}
		hook, err := sentrylogrus.New(levels, sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     cfg.AppVersion,
		})
		if err != nil {
			logger.WithError(err).Error("Failed to initialize Sentry hook")
		} else {
			logger.AddHook(hook)
			logger.Info("Sentry integration initialized successfully")
		}
	}

	return customLogger, nil
}

// InitServices initializes all required services
func InitServices(cfg *config.AppConfig, backends Backends) error {
	if customLogger == nil {
		if _, err := InitLogger(cfg); err != nil {
			return err
		}
	}

	var err error
	blacklistStore, err = NewBlacklistStore(cfg.JWT.BlacklistBackend, backends)
	if err != nil {
		customLogger.WithError(err).Error("Failed to initialize token blacklist")
		return err
	}

	if cfg.JWT.GenerateKeys {
		created, err := jwt.EnsureKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
		if err != nil {
			customLogger.WithError(err).Error("Failed to generate signing keys")
			return err
		}
		if created {
			customLogger.WithField("path", cfg.JWT.PrivateKeyPath).Warn("Generated new Ed25519 signing key pair")
		}
	}

	jwtService, err = jwt.NewJWTService(
		cfg.JWT.PrivateKeyPath,
		cfg.JWT.PublicKeyPath,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
		blacklistStore,
	)
	if err != nil {
		customLogger.WithError(err).Error("Failed to initialize JWT service")
		return err
	}

	userRepo, err := NewUserRepository(cfg.AccountStore, backends)
	if err != nil {
		customLogger.WithError(err).Error("Failed to initialize account store")
		return err
	}
	userService = internalUser.NewService(userRepo, customLogger, 0)

	authService = internalAuth.NewService(userService, jwtService, customLogger)

	customLogger.WithFields(logrus.Fields{
		"account_store":     cfg.AccountStore,
		"blacklist_backend": cfg.JWT.BlacklistBackend,
	}).Info("All services initialized successfully")
	return nil
}

// NewBlacklistStore selects the revocation backend
func NewBlacklistStore(backend string, backends Backends) (blacklist.Store, error) {
	switch backend {
	case config.BlacklistRedis:
		if backends.Redis == nil {
			return nil, errors.New("redis blacklist backend requires a redis connection")
		}
		return blacklist.NewRedisStore(backends.Redis), nil
	case config.BlacklistDatabase:
		if backends.Database == nil {
			return nil, errors.New("database blacklist backend requires a database connection")
		}
		return blacklist.NewDatabaseStore(backends.Database), nil
	case config.BlacklistMemory:
		return blacklist.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown blacklist backend %q", backend)
	}
}

// NewUserRepository selects the account store
func NewUserRepository(store string, backends Backends) (internalUser.Repository, error) {
	switch store {
	case config.AccountStoreDatabase:
		if backends.Database == nil {
			return nil, errors.New("database account store requires a database connection")
		}
		return internalUser.NewRepository(backends.Database), nil
	case config.AccountStoreMemory:
		return internalUser.NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown account store %q", store)
	}
}

// BlacklistPurger returns the active blacklist store when it needs periodic cleanup
func BlacklistPurger() (blacklist.Purger, bool) {
	p, ok := blacklistStore.(blacklist.Purger)
	return p, ok
}

// CSRFMiddleware creates a middleware for CSRF protection
func CSRFMiddleware(secret string, secure bool) gin.HandlerFunc {
	csrfMiddleware := csrf.Protect(
		[]byte(secret),
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.Path("/"),
		csrf.CookieName("csrfToken"),
		csrf.MaxAge(int(csrfMaxAge.Seconds())),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			customLogger.WithFields(logrus.Fields{
				"path":       r.URL.Path,
				"method":     r.Method,
				"user_agent": r.UserAgent(),
				"reason":     fmt.Sprint(csrf.FailureReason(r)),
			}).Warn("CSRF token mismatch")

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(gin.H{
				"code":  status.StatusCSRFTokenMismatch,
				"error": "CSRF token mismatch",
			})
		})),
	)

	return func(c *gin.Context) {
		csrfMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		c.Abort()
	}
}

// RequestLogger logs one entry per request
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("Request completed with server error")
			return
		}
		entry.Debug("Request completed")
	}
}

// SetupEngine creates a gin engine with logging and structured panic recovery
func SetupEngine(cfg *config.AppConfig) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(customLogger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		customLogger.SecureLog(fmt.Errorf("panic: %v", recovered), "Recovered from panic", c.FullPath())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":  status.StatusInternalServerError,
			"error": "Internal server error",
		})
	}))
	return r
}

// SetupCORS configures CORS settings
func SetupCORS(r *gin.Engine, cfg *config.AppConfig) {
	if err := r.SetTrustedProxies(nil); err != nil {
		customLogger.WithError(err).Warn("Failed to reset trusted proxies")
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 24 * time.Hour

	r.Use(cors.New(corsConfig))
}

// SetupCsrfRoutes configures CSRF protection and the token route.
// Nothing is registered when no secret is configured.
func SetupCsrfRoutes(r *gin.Engine, cfg *config.AppConfig) {
	if cfg.CSRFSecret == "" {
		return
	}

	r.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.CSRFSecure))

	v1 := r.Group("/api/v1")
	csrfAPI.RegisterPublicRoutes(v1, csrfAPI.NewHandler(customLogger, csrfMaxAge))
}

// SetupAuthRoutes configures auth-related routes
func SetupAuthRoutes(r *gin.Engine) {
	v1 := r.Group("/api/v1")

	authHandler := authAPI.NewHandler(authService, customLogger)

	authAPI.RegisterPublicRoutes(v1, authHandler)

	authGroup := v1.Group("/auth")
	authGroup.Use(middleware.JWTAuthMiddleware(jwtService, userService, customLogger))
	authAPI.RegisterProtectedRoutes(authGroup, authHandler)
}

// SetupHealthRoutes registers the health endpoint with a check per connected backend
func SetupHealthRoutes(r *gin.Engine, backends Backends) {
	checks := map[string]healthAPI.Check{}
	if backends.Database != nil {
		checks["database"] = db.Health
	}
	if backends.Redis != nil {
		checks["redis"] = backends.Redis.Ping
	}

	healthAPI.RegisterPublicRoutes(r.Group("/api/v1"), healthAPI.NewHandler(checks, 5*time.Second, customLogger))
}

// SetupRouter creates and configures the main router with all routes
func SetupRouter(cfg *config.AppConfig, backends Backends) (*gin.Engine, error) {
	if backends.Database != nil {
		db.DB = backends.Database
	}

	if err := InitServices(cfg, backends); err != nil {
		return nil, err
	}

	r := SetupEngine(cfg)
	SetupCORS(r, cfg)
	SetupCsrfRoutes(r, cfg)
	SetupAuthRoutes(r)
	SetupHealthRoutes(r, backends)

	customLogger.Info("Router setup completed successfully")
	return r, nil
}
