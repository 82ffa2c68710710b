package redis

import (
	"context"
	"log"
	"sync"
	"time"
)

var (
	// global client instance
	defaultClient *Client
	defaultOnce   sync.Once
	stopMonitor   = make(chan struct{})
)

// InitDefault initializes the default Redis client with the given configuration
func InitDefault(config *Config) {
	defaultOnce.Do(func() {
		defaultClient = New(config)

		// Periodically check the connection in the background
		go monitorConnection(defaultClient, config.HealthCheckInterval)
	})
}

// GetDefault returns the default Redis client instance
func GetDefault() *Client {
	if defaultClient == nil {
		panic("Default Redis client not initialized. Call InitDefault first.")
	}
	return defaultClient
}

// CloseAll stops the monitor and closes the default client
func CloseAll() {
	if defaultClient == nil {
		return
	}

	close(stopMonitor)
	if err := defaultClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}
}

// monitorConnection periodically checks the Redis connection and logs issues
func monitorConnection(client *Client, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopMonitor:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := client.Ping(ctx)
			cancel()

			if err != nil {
				log.Printf("Redis health check failed: %v", err)
			}
		}
	}
}
