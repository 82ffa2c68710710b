package auth

// SignupRequest represents the request for account registration.
// Presence of username and password is checked by the auth service.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest represents the login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token to rotate
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest carries the optional refresh token to blacklist
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
