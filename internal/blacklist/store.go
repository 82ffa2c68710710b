package blacklist

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyRevoked indicates the token ID is already on the blacklist
	ErrAlreadyRevoked = errors.New("Token is already blacklisted")

	// ErrInvalidTokenID indicates an empty or malformed token ID
	ErrInvalidTokenID = errors.New("Invalid token ID")
)

// Store records revoked refresh tokens until they would have expired anyway
type Store interface {
	Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// remaining returns how long an entry must be kept, never less than one second
func remaining(expiresAt time.Time, now time.Time) time.Duration {
	ttl := expiresAt.Sub(now)
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
