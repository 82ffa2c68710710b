package auth

import (
	"context"
	"errors"

	"gatekeeper-api/internal/jwt"
	"gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/models"
	"gatekeeper-api/internal/user"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// NewService creates a new auth service
func NewService(userService *user.Service, jwtService *jwt.JWTService, log *logger.Logger) *Service {
	return &Service{
		userService: userService,
		jwtService:  jwtService,
		validate:    validator.New(),
		logger:      log,
	}
}

// Signup creates the account and issues its first token pair
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Session, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, ValidationError(MsgRequiredFields)
	}

	u, err := s.userService.CreateUser(ctx, in.Username, in.Password, in.Email)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUsernameAlreadyExists):
			return nil, ConflictError(MsgUsernameTaken, err)
		case errors.Is(err, user.ErrInvalidInput):
			return nil, ValidationError(MsgRequiredFields)
		}
		return nil, InternalError(err)
	}

	tokens, err := s.jwtService.GenerateTokenPair(*u)
	if err != nil {
		return nil, InternalError(err)
	}

	s.logger.WithField("user_id", u.ID).Info("Account created")
	return &Session{User: u, Tokens: tokens}, nil
}

// Login verifies the credentials and issues a fresh token pair.
// Unknown usernames and wrong passwords fail with the same message.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, ValidationError(MsgRequiredFields)
	}

	u, err := s.userService.VerifyCredentials(ctx, in.Username, in.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			return nil, AuthenticationError(MsgInvalidCredentials, err)
		case errors.Is(err, user.ErrInvalidInput):
			return nil, ValidationError(MsgRequiredFields)
		}
		return nil, InternalError(err)
	}

	tokens, err := s.jwtService.GenerateTokenPair(*u)
	if err != nil {
		return nil, InternalError(err)
	}
	return &Session{User: u, Tokens: tokens}, nil
}

// Logout blacklists the refresh token when one is given.
// It never fails: revocation problems are logged and dropped.
func (s *Service) Logout(ctx context.Context, caller *models.User, refreshToken string) {
	if refreshToken == "" {
		return
	}

	claims, err := s.jwtService.Blacklist(ctx, refreshToken)
	if err != nil {
		fields := logrus.Fields{"reason": err.Error()}
		if caller != nil {
			fields["user_id"] = caller.ID
		}
		s.logger.WithFields(fields).Warn("Refresh token not blacklisted on logout")
		return
	}

	if caller != nil && claims.UserID != caller.ID {
		s.logger.WithFields(logrus.Fields{
			"user_id":       caller.ID,
			"token_user_id": claims.UserID,
		}).Warn("Logout revoked a refresh token of another account")
	}
}

// Refresh rotates the refresh token and returns a new pair
func (s *Service) Refresh(ctx context.Context, in RefreshInput) (*Session, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, ValidationError(MsgRefreshRequired)
	}

	tokens, u, err := s.jwtService.Refresh(ctx, in.RefreshToken, s.activeUser)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrInvalidToken),
			errors.Is(err, jwt.ErrWrongTokenType),
			errors.Is(err, jwt.ErrTokenRevoked),
			errors.Is(err, user.ErrUserNotFound),
			errors.Is(err, user.ErrInvalidInput):
			return nil, AuthenticationError(MsgInvalidRefreshToken, err)
		}
		return nil, InternalError(err)
	}
	return &Session{User: u, Tokens: tokens}, nil
}

func (s *Service) activeUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.userService.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

// Profile describes the authenticated caller
func (s *Service) Profile(ctx context.Context, caller *models.User) (*Profile, error) {
	if caller == nil {
		return nil, InternalError(errors.New("no authenticated user in request context"))
	}
	return &Profile{
		UserID:          caller.ID,
		Username:        caller.Username,
		Email:           caller.Email,
		IsAuthenticated: true,
	}, nil
}
