// api/v1/auth/routes.go
package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers routes that need no authentication
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	authGroup := r.Group("/auth")

	authGroup.POST("/signup", h.HandleSignup)
	authGroup.POST("/login", h.HandleLogin)
	authGroup.POST("/refresh", h.HandleRefreshToken)
}

// RegisterProtectedRoutes registers routes behind the JWT middleware
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	r.POST("/logout", h.HandleLogout)
	r.GET("/profile", h.HandleProfile)
}
