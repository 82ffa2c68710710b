package csrf

import (
	"errors"
	"net/http"
	"time"

	"gatekeeper-api/internal/logger"
	"gatekeeper-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// Handler hands out CSRF tokens for browser clients
type Handler struct {
	logger *logger.Logger
	maxAge time.Duration
}

// NewHandler creates a new CSRF handler
func NewHandler(log *logger.Logger, maxAge time.Duration) *Handler {
	return &Handler{
		logger: log,
		maxAge: maxAge,
	}
}

// HandleCSRFToken returns the token bound to the caller's CSRF cookie
func (h *Handler) HandleCSRFToken(c *gin.Context) {
	token := csrf.Token(c.Request)
	if token == "" {
		h.logger.SecureLog(errors.New("returned empty token"), "Failed to generate CSRF token", "csrf")
		c.JSON(http.StatusInternalServerError, NewErrorResponse(
			status.StatusInternalServerError,
			"Internal server error, please try again later",
		))
		return
	}
	c.JSON(http.StatusOK, NewResponse(token, time.Now().Add(h.maxAge).Unix()))
}
