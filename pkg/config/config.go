package config

import (
	"gatekeeper-api/pkg/redis"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Account store backends
const (
	AccountStoreDatabase = "database"
	AccountStoreMemory   = "memory"
)

// AppConfig holds all configuration settings for the application
type AppConfig struct {
	// Server settings
	Port            string
	Host            string
	Environment     string
	LogLevel        string
	RequestTimeout  int
	ShutdownTimeout int

	// Storage backend for accounts: "database" or "memory"
	AccountStore string

	// CORS / CSRF
	CORSAllowedOrigins []string
	CSRFSecret         string
	CSRFSecure         bool

	// Error reporting
	SentryDSN  string
	AppVersion string

	// Database settings (from database.go)
	Database *DatabaseConfig

	// Redis settings (from redis.go)
	Redis *redis.Config

	// Token settings (from jwt.go)
	JWT *JWTConfig
}

var (
	appConfig *AppConfig
	once      sync.Once
)

// LoadConfig loads all configuration from environment variables
func LoadConfig() *AppConfig {
	once.Do(func() {
		// Load environment variables from .env file if it exists
		loadEnvFile()

		appConfig = build()
	})

	return appConfig
}

// build reads the current environment into a fresh AppConfig
func build() *AppConfig {
	return &AppConfig{
		Port:            getEnv("PORT", "8000"),
		Host:            getEnv("HOST", "localhost"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RequestTimeout:  getEnvAsInt("REQUEST_TIMEOUT", 30),
		ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),

		AccountStore: strings.ToLower(getEnv("ACCOUNT_STORE", AccountStoreDatabase)),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		CSRFSecret:         getEnv("CSRF_SECRET", ""),
		CSRFSecure:         getEnvAsBool("CSRF_SECURE", false),

		SentryDSN:  getEnv("SENTRY_DSN", ""),
		AppVersion: getEnv("APP_VERSION", "dev"),

		Database: LoadDatabaseConfig(),
		Redis:    LoadRedisConfig(),
		JWT:      LoadJWTConfig(),
	}
}

// IsDevelopment returns true if the app is in development mode
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if the app is in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// UsesDatabase reports whether any component needs the Postgres connection
func (c *AppConfig) UsesDatabase() bool {
	return c.AccountStore == AccountStoreDatabase || c.JWT.BlacklistBackend == BlacklistDatabase
}

// UsesRedis reports whether any component needs the Redis connection
func (c *AppConfig) UsesRedis() bool {
	return c.JWT.BlacklistBackend == BlacklistRedis
}

// loadEnvFile tries to load environment variables from .env file
func loadEnvFile() {
	envFiles := []string{
		".env." + os.Getenv("ENVIRONMENT") + ".local", // .env.development.local
		".env.local",                       // .env.local
		".env." + os.Getenv("ENVIRONMENT"), // .env.development
		".env",                             // .env
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			err = godotenv.Load(file)
			if err == nil {
				log.Printf("Loaded environment from %s", file)
				break
			}
		}
	}
}
