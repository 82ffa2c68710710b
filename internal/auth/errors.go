package auth

import (
	"errors"
	"fmt"
)

// Kind classifies an auth failure; the HTTP layer maps each kind to a status
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	default:
		return "internal"
	}
}

// Client facing messages
const (
	MsgRequiredFields      = "Username and password are required"
	MsgUsernameTaken       = "Username already exists"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgRefreshRequired     = "Refresh token is required"
	MsgInvalidRefreshToken = "Invalid refresh token"
	MsgInvalidRequest      = "Invalid request format"
)

// Error is returned by every Service operation
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError builds a KindValidation error
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ConflictError builds a KindConflict error
func ConflictError(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// AuthenticationError builds a KindAuthentication error
func AuthenticationError(message string, err error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: err}
}

// InternalError passes the underlying message through
func InternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: err.Error(), Err: err}
}

// KindOf reports the kind of err; errors not produced by this package are internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client facing message of err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return fmt.Sprint(err)
}
