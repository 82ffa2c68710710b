// internal/jwt/service.go
package jwt

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"gatekeeper-api/internal/blacklist"
	"gatekeeper-api/internal/models"
	"gatekeeper-api/internal/utils"

	"github.com/golang-jwt/jwt/v4"
)

// NewJWTService creates a new JWT service with Ed25519 keys loaded from PEM files
func NewJWTService(privateKeyPath, publicKeyPath, issuer string, accessExpiry, refreshExpiry time.Duration, store blacklist.Store) (*JWTService, error) {
	privateKey, err := getOrLoadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	publicKey, err := getOrLoadPublicKey(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key: %w", err)
	}
	return NewJWTServiceWithKeys(privateKey, publicKey, issuer, accessExpiry, refreshExpiry, store), nil
}

// NewJWTServiceWithKeys creates a JWT service from in-memory keys
func NewJWTServiceWithKeys(privateKey ed25519.PrivateKey, publicKey ed25519.PublicKey, issuer string, accessExpiry, refreshExpiry time.Duration, store blacklist.Store) *JWTService {
	return &JWTService{
		privateKey:    privateKey,
		publicKey:     publicKey,
		issuer:        issuer,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		blacklist:     store,
	}
}

// GenerateToken creates a signed token of the given type for the user
func (s *JWTService) GenerateToken(user models.User, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   user.ID,
			ID:        utils.GenerateTokenID(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signedToken, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}

// GenerateTokenPair creates both access and refresh tokens for the user
func (s *JWTService) GenerateTokenPair(user models.User) (TokenPair, error) {
	accessToken, err := s.GenerateToken(user, TokenTypeAccess, s.accessExpiry)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.GenerateToken(user, TokenTypeRefresh, s.refreshExpiry)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    BearerScheme,
		ExpiresIn:    int64(s.accessExpiry.Seconds()),
	}, nil
}

// ValidateToken checks signature, time claims and issuer, and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing subject, id or expiry", ErrInvalidToken)
	}
	return claims, nil
}

// ValidateAccessToken validates a bearer access token.
// Access tokens are stateless: the blacklist is not consulted.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and rejects blacklisted ones
func (s *JWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Blacklist revokes a refresh token until its natural expiry
func (s *JWTService) Blacklist(ctx context.Context, refreshToken string) (*Claims, error) {
	claims, err := s.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}

	err = s.blacklist.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time)
	if errors.Is(err, blacklist.ErrAlreadyRevoked) {
		return claims, ErrTokenRevoked
	}
	if err != nil {
		return claims, err
	}
	return claims, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued for the account returned by resolve. Revocation happens
// first, so of two concurrent refreshes with the same token only one wins.
func (s *JWTService) Refresh(ctx context.Context, refreshToken string, resolve func(ctx context.Context, userID string) (*models.User, error)) (TokenPair, *models.User, error) {
	claims, err := s.Blacklist(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, nil, err
	}

	user, err := resolve(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, nil, err
	}

	pair, err := s.GenerateTokenPair(*user)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, user, nil
}
