package auth

import (
	"net/http"

	"gatekeeper-api/internal/auth"
	"gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/middleware"
	"gatekeeper-api/pkg/status"

	"github.com/gin-gonic/gin"
)

// NewHandler creates a new auth handler
func NewHandler(authService *auth.Service, log *logger.Logger) *Handler {
	return &Handler{
		authService: authService,
		logger:      log,
	}
}

// HandleSignup registers an account and returns its first token pair
func (h *Handler) HandleSignup(c *gin.Context) {
	var req SignupRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(auth.MsgInvalidRequest, status.StatusBadRequest))
		return
	}

	sess, err := h.authService.Signup(c.Request.Context(), auth.SignupInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		h.respondError(c, err, "signup")
		return
	}

	c.JSON(http.StatusCreated, NewTokenResponse("User created successfully", sess, status.StatusSignupSuccess))
}

// HandleLogin verifies credentials and issues a fresh token pair
func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(auth.MsgInvalidRequest, status.StatusBadRequest))
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, NewTokenResponse("Login successful", sess, status.StatusLoginSuccess))
}

// HandleRefreshToken exchanges a refresh token for a new pair
func (h *Handler) HandleRefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(auth.MsgInvalidRequest, status.StatusBadRequest))
		return
	}

	sess, err := h.authService.Refresh(c.Request.Context(), auth.RefreshInput{RefreshToken: req.RefreshToken})
	if err != nil {
		h.respondError(c, err, "refresh")
		return
	}

	c.JSON(http.StatusOK, NewTokenResponse("Token refreshed", sess, status.StatusTokenRefreshed))
}

// HandleLogout blacklists the supplied refresh token.
// The response is always 200, even for unreadable bodies.
func (h *Handler) HandleLogout(c *gin.Context) {
	var req LogoutRequest
	_ = bindOptionalJSON(c, &req)

	caller, _ := middleware.CurrentUser(c)
	h.authService.Logout(c.Request.Context(), caller, req.RefreshToken)

	c.JSON(http.StatusOK, NewMessageResponse("Logout successful", status.StatusLogoutSuccess))
}

// HandleProfile returns the authenticated caller's identity
func (h *Handler) HandleProfile(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	profile, err := h.authService.Profile(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err, "profile")
		return
	}

	c.JSON(http.StatusOK, NewProfileResponse(profile, status.StatusProfile))
}
