package redis

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps go-redis and rebuilds its connection pool after a burst of failures
type Client struct {
	mu     sync.RWMutex
	client *redis.Client
	config *Config
	errs   errorWindow
}

// Config holds Redis client configuration
type Config struct {
	Host                string
	Port                int
	DB                  int
	Password            string
	MaxConnections      int
	ConnTimeout         time.Duration
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	HealthCheckInterval time.Duration

	// Consecutive failures within ErrorWindow that trigger a reconnect
	MaxErrors   int32
	ErrorWindow time.Duration
}

// DefaultConfig returns default Redis configuration
func DefaultConfig() *Config {
	return &Config{
		Host:                "localhost",
		Port:                6379,
		MaxConnections:      100,
		ConnTimeout:         2 * time.Second,
		ReadTimeout:         3 * time.Second,
		WriteTimeout:        3 * time.Second,
		HealthCheckInterval: 30 * time.Second,
		MaxErrors:           5,
		ErrorWindow:         time.Minute,
	}
}

// Addr returns host:port
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) options() *redis.Options {
	return &redis.Options{
		Addr:            c.Addr(),
		Password:        c.Password,
		DB:              c.DB,
		PoolSize:        c.MaxConnections,
		MinIdleConns:    min(10, c.MaxConnections),
		DialTimeout:     c.ConnTimeout,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// New creates a client; no connection is made until the first command
func New(config *Config) *Client {
	return &Client{
		client: redis.NewClient(config.options()),
		config: config,
		errs:   errorWindow{max: config.MaxErrors, window: config.ErrorWindow},
	}
}

// conn returns the current go-redis client, reconnecting first when the error window tripped
func (c *Client) conn() *redis.Client {
	if c.errs.tripped(time.Now()) {
		c.mu.Lock()
		if c.errs.tripped(time.Now()) {
			log.Printf("Too many Redis errors, resetting connection to %s", c.config.Addr())
			_ = c.client.Close()
			c.client = redis.NewClient(c.config.options())
			c.errs.reset()
		}
		c.mu.Unlock()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// observe records the outcome of a command; redis.Nil is a normal reply
func (c *Client) observe(err error) {
	if err == nil || err == redis.Nil {
		c.errs.reset()
		return
	}
	c.errs.record(time.Now())
}

// Ping checks if Redis is responding
func (c *Client) Ping(ctx context.Context) error {
	err := c.conn().Ping(ctx).Err()
	c.observe(err)
	if err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}

// SetNX sets a value only if the key does not exist yet.
// Returns false when the key was already present.
func (c *Client) SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error) {
	ok, err := c.conn().SetNX(ctx, key, value, expiration).Result()
	c.observe(err)
	if err != nil {
		return false, fmt.Errorf("redis setnx error: %w", err)
	}
	return ok, nil
}

// Exists reports whether the key is present
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.conn().Exists(ctx, key).Result()
	c.observe(err)
	if err != nil {
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return n > 0, nil
}

// Close closes the underlying pool
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client.Close()
}

// errorWindow counts consecutive failures and trips when max of them
// happened with the latest inside window
type errorWindow struct {
	max    int32
	window time.Duration
	count  atomic.Int32
	last   atomic.Int64
}

func (w *errorWindow) record(now time.Time) {
	w.last.Store(now.UnixNano())
	w.count.Add(1)
}

func (w *errorWindow) reset() {
	w.count.Store(0)
}

func (w *errorWindow) tripped(now time.Time) bool {
	if w.max <= 0 {
		return false
	}
	if w.count.Load() < w.max {
		return false
	}
	return now.Sub(time.Unix(0, w.last.Load())) < w.window
}
