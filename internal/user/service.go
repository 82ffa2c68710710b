package user

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	// Hash compared against when the username does not exist, so a miss
	// costs the same as a wrong password
	dummyHashes   = make(map[int][]byte)
	dummyHashesMu sync.Mutex
)

// NewService creates a new user service. A hashCost of 0 selects bcrypt.DefaultCost.
func NewService(repo Repository, log *logger.Logger, hashCost int) *Service {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:     repo,
		logger:   log,
		hashCost: hashCost,
	}
}

// GetUserById retrieves a user by ID
func (s *Service) GetUserById(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.FindUserByID(ctx, userID)
}

// GetUserByUsername retrieves a user by username
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.FindUserByUsername(ctx, username)
}

// CreateUser hashes the password and stores a new account
func (s *Service) CreateUser(ctx context.Context, username, password, email string) (*models.User, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	// Cheap early rejection; the repository still arbitrates concurrent inserts
	existing, err := s.repo.FindUserByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, ErrUsernameAlreadyExists
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
	}

	saved, err := s.repo.SaveUser(ctx, user)
	if err != nil {
		if !errors.Is(err, ErrUsernameAlreadyExists) {
			s.logger.WithError(err).Error("Failed to save user")
		}
		return nil, err
	}

	return saved, nil
}

// VerifyCredentials returns the account when password matches.
// Unknown usernames, inactive accounts and wrong passwords all yield ErrInvalidCredentials.
func (s *Service) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.repo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = comparePassword(s.dummyHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := comparePassword([]byte(user.PasswordHash), password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	s.recordLogin(ctx, user)
	return user, nil
}

// recordLogin stamps last_login; a failure is logged and does not block the login
func (s *Service) recordLogin(ctx context.Context, user *models.User) {
	at := time.Now().Unix()
	if err := s.repo.RecordLogin(ctx, user.ID, at); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
		return
	}
	user.LastLogin = at
}

func (s *Service) dummyHash() []byte {
	dummyHashesMu.Lock()
	defer dummyHashesMu.Unlock()

	if h, ok := dummyHashes[s.hashCost]; ok {
		return h
	}
	h, err := hashPassword("gatekeeper-timing-pad", s.hashCost)
	if err != nil {
		return nil
	}
	dummyHashes[s.hashCost] = h
	return h
}
