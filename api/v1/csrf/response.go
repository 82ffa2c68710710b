package csrf

import "gatekeeper-api/pkg/status"

type CsrfResponse struct {
	Code      int16  `json:"code"`
	Token     string `json:"csrf_token"`
	ExpiresAt int64  `json:"expires_at"`
}

type ErrorResponse struct {
	Code  int16  `json:"code"`
	Error string `json:"error"`
}

func NewResponse(token string, expiresAt int64) *CsrfResponse {
	return &CsrfResponse{
		Code:      status.StatusOK,
		Token:     token,
		ExpiresAt: expiresAt,
	}
}

func NewErrorResponse(code int16, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:  code,
		Error: message,
	}
}
