package auth

import (
	"gatekeeper-api/internal/jwt"
	"gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/models"
	"gatekeeper-api/internal/user"

	"github.com/go-playground/validator/v10"
)

// Service implements signup, login, logout, refresh and profile
type Service struct {
	userService *user.Service
	jwtService  *jwt.JWTService
	validate    *validator.Validate
	logger      *logger.Logger
}

// SignupInput carries the signup fields
type SignupInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Email    string
}

// LoginInput carries the login fields
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// RefreshInput carries the token to rotate
type RefreshInput struct {
	RefreshToken string `validate:"required"`
}

// Session is an account together with a freshly issued token pair
type Session struct {
	User   *models.User
	Tokens jwt.TokenPair
}

// Profile is the identity of an authenticated caller
type Profile struct {
	UserID          string
	Username        string
	Email           string
	IsAuthenticated bool
}
