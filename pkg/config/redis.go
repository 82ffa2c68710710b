package config

import (
	redis "gatekeeper-api/pkg/redis"
)

// LoadRedisConfig loads Redis configuration from environment variables.
// Only the blacklist uses Redis; see TOKEN_BLACKLIST_BACKEND.
func LoadRedisConfig() *redis.Config {
	def := redis.DefaultConfig()

	return &redis.Config{
		Host:                getEnv("REDIS_HOST", def.Host),
		Port:                getEnvAsInt("REDIS_PORT", def.Port),
		DB:                  getEnvAsInt("REDIS_DB", def.DB),
		Password:            getEnv("REDIS_PASSWORD", def.Password),
		MaxConnections:      getEnvAsInt("REDIS_MAX_CONNECTIONS", def.MaxConnections),
		ConnTimeout:         getEnvAsDuration("REDIS_CONN_TIMEOUT", def.ConnTimeout),
		ReadTimeout:         getEnvAsDuration("REDIS_READ_TIMEOUT", def.ReadTimeout),
		WriteTimeout:        getEnvAsDuration("REDIS_WRITE_TIMEOUT", def.WriteTimeout),
		HealthCheckInterval: getEnvAsDuration("REDIS_HEALTH_CHECK_INTERVAL", def.HealthCheckInterval),
		MaxErrors:           int32(getEnvAsInt("REDIS_MAX_ERRORS", int(def.MaxErrors))),
		ErrorWindow:         getEnvAsDuration("REDIS_ERROR_WINDOW", def.ErrorWindow),
	}
}
