package auth

import (
	"errors"
	"io"
	"net/http"

	"gatekeeper-api/internal/auth"
	"gatekeeper-api/internal/user"
	"gatekeeper-api/pkg/status"

	"github.com/gin-gonic/gin"
)

// bindOptionalJSON binds the body when there is one; an empty body leaves req zeroed
func bindOptionalJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// statusFor maps an auth error onto the HTTP status and application code
func statusFor(err error) (int, int16) {
	switch auth.KindOf(err) {
	case auth.KindValidation:
		return http.StatusBadRequest, status.StatusValidationFailed
	case auth.KindConflict:
		return http.StatusBadRequest, status.StatusUsernameTaken
	case auth.KindAuthentication:
		if errors.Is(err, user.ErrInvalidCredentials) {
			return http.StatusUnauthorized, status.StatusInvalidCredentials
		}
		return http.StatusUnauthorized, status.StatusInvalidToken
	default:
		return http.StatusInternalServerError, status.StatusInternalServerError
	}
}

// respondError writes err as {code, error}; internal failures are logged
func (h *Handler) respondError(c *gin.Context, err error, route string) {
	httpStatus, code := statusFor(err)
	if httpStatus >= http.StatusInternalServerError {
		h.logger.SecureLog(err, "Request failed", route)
	}
	c.JSON(httpStatus, NewErrorResponse(auth.MessageOf(err), code))
}
