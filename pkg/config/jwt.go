package config

import (
	"strings"
	"time"
)

// Blacklist backends
const (
	BlacklistRedis    = "redis"
	BlacklistDatabase = "database"
	BlacklistMemory   = "memory"
)

// JWTConfig holds token signing and lifetime settings
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	Issuer         string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration

	// Create the key pair on boot when the files are missing
	GenerateKeys bool

	// Where revoked refresh tokens are recorded: redis, database or memory
	BlacklistBackend string
}

// LoadJWTConfig loads token configuration from environment variables
func LoadJWTConfig() *JWTConfig {
	return &JWTConfig{
		PrivateKeyPath:   getEnv("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
		PublicKeyPath:    getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
		Issuer:           getEnv("JWT_ISSUER", "gatekeeper-api"),
		AccessTTL:        getEnvAsDuration("JWT_ACCESS_TTL", 1*time.Hour),
		RefreshTTL:       getEnvAsDuration("JWT_REFRESH_TTL", 24*time.Hour),
		GenerateKeys:     getEnvAsBool("JWT_GENERATE_KEYS", false),
		BlacklistBackend: strings.ToLower(getEnv("TOKEN_BLACKLIST_BACKEND", BlacklistRedis)),
	}
}
