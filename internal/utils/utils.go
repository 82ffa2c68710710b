package utils

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateShortID returns a 22 character URL-safe id for log correlation
func GenerateShortID() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// GenerateUserID returns "user-" followed by 32 hex characters
func GenerateUserID() string {
	id := uuid.New()
	return "user-" + hex.EncodeToString(id[:])
}

// GenerateTokenID returns a canonical UUID for the jti claim
func GenerateTokenID() string {
	return uuid.NewString()
}
