package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildDefaults(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "bogus")
	t.Setenv("JWT_REFRESH_TTL", "24h")
	t.Setenv("CORS_ALLOWED_ORIGINS", " ")

	cfg := build()
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestBuildOverrides(t *testing.T) {
	t.Setenv("ACCOUNT_STORE", "Memory")
	t.Setenv("TOKEN_BLACKLIST_BACKEND", "DATABASE")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("JWT_REFRESH_TTL", "3600")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_MIGRATE_ON_BOOT", "false")

	cfg := build()
	assert.Equal(t, AccountStoreMemory, cfg.AccountStore)
	assert.Equal(t, BlacklistDatabase, cfg.JWT.BlacklistBackend)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, time.Hour, cfg.JWT.RefreshTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.Database.MigrateOnBoot)
	assert.True(t, cfg.UsesDatabase())
	assert.False(t, cfg.UsesRedis())
}

func TestDatabaseURL(t *testing.T) {
	cfg := &DatabaseConfig{
		Username:        "u",
		Password:        "p",
		Host:            "db",
		Port:            "5432",
		Name:            "gatekeeper",
		SSLMode:         "disable",
		DefaultTimeZone: "UTC",
	}
	assert.Equal(t, "postgres://u:p@db:5432/gatekeeper?TimeZone=UTC&sslmode=disable", cfg.GetDatabaseURL())
}

func TestDatabaseURLEscapesCredentials(t *testing.T) {
	cfg := &DatabaseConfig{
		Username:        "svc",
		Password:        "p@ss/word",
		Host:            "db",
		Port:            "5432",
		Name:            "gatekeeper",
		SSLMode:         "require",
		DefaultTimeZone: "UTC",
	}
	assert.Equal(t, "postgres://svc:p%40ss%2Fword@db:5432/gatekeeper?TimeZone=UTC&sslmode=require", cfg.GetDatabaseURL())
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_CONN_TIMEOUT", "5")
	t.Setenv("REDIS_MAX_ERRORS", "not-a-number")

	cfg := LoadRedisConfig()
	assert.Equal(t, "cache:6380", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.ConnTimeout)
	assert.Equal(t, int32(5), cfg.MaxErrors)
}
