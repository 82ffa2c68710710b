package auth

import (
	"gatekeeper-api/internal/auth"
)

// BaseResponse contains fields common to all responses
type BaseResponse struct {
	Code int16 `json:"code"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	BaseResponse
	Error string `json:"error"`
}

// MessageResponse represents a plain success message
type MessageResponse struct {
	BaseResponse
	Message string `json:"message"`
}

// TokenResponse is returned by signup, login and refresh
type TokenResponse struct {
	BaseResponse
	Message      string `json:"message"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ProfileResponse describes the authenticated caller
type ProfileResponse struct {
	BaseResponse
	UserID          string `json:"user_id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(message string, code int16) ErrorResponse {
	return ErrorResponse{
		BaseResponse: BaseResponse{Code: code},
		Error:        message,
	}
}

// NewMessageResponse creates a new message response
func NewMessageResponse(message string, code int16) MessageResponse {
	return MessageResponse{
		BaseResponse: BaseResponse{Code: code},
		Message:      message,
	}
}

// NewTokenResponse creates a token response from an auth session
func NewTokenResponse(message string, sess *auth.Session, code int16) TokenResponse {
	return TokenResponse{
		BaseResponse: BaseResponse{Code: code},
		Message:      message,
		UserID:       sess.User.ID,
		Username:     sess.User.Username,
		AccessToken:  sess.Tokens.AccessToken,
		RefreshToken: sess.Tokens.RefreshToken,
		TokenType:    sess.Tokens.TokenType,
		ExpiresIn:    sess.Tokens.ExpiresIn,
	}
}

// NewProfileResponse creates a new profile response
func NewProfileResponse(p *auth.Profile, code int16) ProfileResponse {
	return ProfileResponse{
		BaseResponse:    BaseResponse{Code: code},
		UserID:          p.UserID,
		Username:        p.Username,
		Email:           p.Email,
		IsAuthenticated: p.IsAuthenticated,
	}
}
