package middleware

import (
	"errors"
	"net/http"
	"strings"

	"gatekeeper-api/internal/jwt"
	"gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/models"
	"gatekeeper-api/internal/user"
	"gatekeeper-api/pkg/status"

	"github.com/gin-gonic/gin"
)

// CurrentUserKey is the gin context key holding the authenticated *models.User
const CurrentUserKey = "currentUser"

const (
	msgCredentialsMissing = "Authentication credentials were not provided"
	msgInvalidToken       = "Invalid or expired token"
)

// JWTAuthMiddleware resolves the bearer access token to an account and stores
// it under CurrentUserKey. Requests without a usable token stop here with 401.
func JWTAuthMiddleware(jwtService *jwt.JWTService, userService *user.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present := extractBearerToken(c)
		if !present {
			abortUnauthorized(c, status.StatusUnauthorized, msgCredentialsMissing)
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			abortUnauthorized(c, status.StatusInvalidToken, msgInvalidToken)
			return
		}

		account, err := userService.GetUserById(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, user.ErrInvalidInput) {
				abortUnauthorized(c, status.StatusInvalidToken, msgInvalidToken)
				return
			}
			log.SecureLog(err, "Failed to resolve token subject", "authMiddleware")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":  status.StatusInternalServerError,
				"error": err.Error(),
			})
			return
		}
		if !account.Active {
			abortUnauthorized(c, status.StatusInvalidToken, msgInvalidToken)
			return
		}

		c.Set(CurrentUserKey, account)
		c.Next()
	}
}

// CurrentUser returns the account stored by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

// extractBearerToken reads "Authorization: Bearer <token>".
// present is false only when no credentials were sent at all.
func extractBearerToken(c *gin.Context) (token string, present bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], jwt.BearerScheme) {
		return "", true
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, code int16, message string) {
	c.Header("WWW-Authenticate", jwt.BearerScheme)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  code,
		"error": message,
	})
}
