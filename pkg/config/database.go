package config

import (
	"net"
	"net/url"
	"time"
)

// DatabaseConfig holds the Postgres connection and pool settings
type DatabaseConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string

	PoolMinSize     int
	PoolMaxSize     int
	ConnectTimeout  time.Duration
	MaxIdleTime     time.Duration
	MaxLifetime     time.Duration
	PrepareCached   bool
	DefaultTimeZone string

	// Schema management on boot: gorm AutoMigrate in development, SQL files otherwise
	MigrateOnBoot  bool
	MigrationsPath string
}

// GetDatabaseURL returns a postgres:// URL with credentials escaped
func (c *DatabaseConfig) GetDatabaseURL() string {
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	q.Set("TimeZone", c.DefaultTimeZone)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// LoadDatabaseConfig loads database configuration from environment variables
func LoadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Username: getEnv("DB_USERNAME", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Name:     getEnv("DB_NAME", "gatekeeper"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),

		PoolMinSize:     getEnvAsInt("DB_POOL_MIN_SIZE", 5),
		PoolMaxSize:     getEnvAsInt("DB_POOL_MAX_SIZE", 20),
		ConnectTimeout:  getEnvAsDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		MaxIdleTime:     getEnvAsDuration("DB_MAX_IDLE_TIME", 30*time.Minute),
		MaxLifetime:     getEnvAsDuration("DB_MAX_LIFETIME", time.Hour),
		PrepareCached:   getEnvAsBool("DB_PREPARE_CACHED", true),
		DefaultTimeZone: getEnv("DB_TIMEZONE", "UTC"),

		MigrateOnBoot:  getEnvAsBool("DB_MIGRATE_ON_BOOT", true),
		MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "migrations"),
	}
}
