package auth

import (
	"gatekeeper-api/internal/auth"
	"gatekeeper-api/internal/logger"
)

// Handler manages auth-related HTTP requests
type Handler struct {
	authService *auth.Service
	logger      *logger.Logger
}
