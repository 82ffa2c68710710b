package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gatekeeper-api/internal/logger"
	"gatekeeper-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// NewHandler creates a health handler running checks concurrently within timeout
func NewHandler(checks map[string]Check, timeout time.Duration, log *logger.Logger) *Handler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Handler{
		checks:  checks,
		timeout: timeout,
		logger:  log,
	}
}

// HandleHealth answers 200 when every check passes and 503 otherwise
func (h *Handler) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]string, len(h.checks))
	)

	// every check runs to completion so the report names all failures
	var g errgroup.Group
	for name, check := range h.checks {
		g.Go(func() error {
			err := check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				results[name] = "unavailable"
				h.logger.WithFields(logrus.Fields{"check": name, "error_msg": err.Error()}).Warn("Health check failed")
				return err
			}
			results[name] = "ok"
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.JSON(http.StatusServiceUnavailable, Response{
			Code:   status.StatusServiceUnavailable,
			Status: "unavailable",
			Checks: results,
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Code:   status.StatusOK,
		Status: "ok",
		Checks: results,
	})
}
