// internal/jwt/types.go
package jwt

import (
	"crypto/ed25519"
	"errors"
	"sync"
	"time"

	"gatekeeper-api/internal/blacklist"

	"github.com/golang-jwt/jwt/v4"
)

// Token types carried in the token_type claim
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	// Scheme clients put in front of the access token
	BearerScheme = "Bearer"
)

var (
	// ErrInvalidToken covers malformed, badly signed, expired or foreign tokens
	ErrInvalidToken = errors.New("Invalid token")

	// ErrWrongTokenType indicates an access token was used as refresh token or vice versa
	ErrWrongTokenType = errors.New("Wrong token type")

	// ErrTokenRevoked indicates the refresh token is blacklisted
	ErrTokenRevoked = errors.New("Token is blacklisted")
)

// TokenPair represents both access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// Claims represents the JWT claims issued by this service.
// Subject and UserID both hold the account ID.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTService provides JWT token generation, validation and revocation
type JWTService struct {
	privateKey    ed25519.PrivateKey
	publicKey     ed25519.PublicKey
	issuer        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	blacklist     blacklist.Store
}

// Global key cache with lock to ensure thread safety
var (
	keyCache     = make(map[string]any)
	keyCacheLock sync.RWMutex
)
