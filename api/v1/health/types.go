package health

import (
	"context"
	"time"

	"gatekeeper-api/internal/logger"
)

// Check pings one backing dependency
type Check func(ctx context.Context) error

// Handler reports whether the service and its stores are reachable
type Handler struct {
	checks  map[string]Check
	timeout time.Duration
	logger  *logger.Logger
}
