package user

import (
	"context"

	"gatekeeper-api/internal/logger"
	"gatekeeper-api/internal/models"
)

// Repository is the account store contract.
// SaveUser must enforce username uniqueness atomically and
// return ErrUsernameAlreadyExists on conflict.
type Repository interface {
	SaveUser(ctx context.Context, user *models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	RecordLogin(ctx context.Context, id string, at int64) error
}

// Service handles account operations
type Service struct {
	repo     Repository
	logger   *logger.Logger
	hashCost int
}
