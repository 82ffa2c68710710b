package user

import (
	"context"
	"fmt"

	"gatekeeper-api/internal/models"
	"gatekeeper-api/pkg/db"

	"gorm.io/gorm"
)

// NewRepository creates a new Postgres-backed user repository
func NewRepository(database *gorm.DB) Repository {
	return &repo{
		userRepo: db.NewRepositoryWithDB[models.User](database),
	}
}

// repo is the gorm implementation of Repository
type repo struct {
	userRepo db.Repository[models.User]
}

// SaveUser inserts a new user; the unique index on username arbitrates races
func (r *repo) SaveUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.userRepo.Create(ctx, user); err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

// FindUserByID finds a user by ID
func (r *repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

// FindUserByUsername finds a user by exact username
func (r *repo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := r.userRepo.FindOneWhere(ctx, "username = ?", username)
	if err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

// RecordLogin sets last_login without touching modified_at
func (r *repo) RecordLogin(ctx context.Context, id string, at int64) error {
	n, err := r.userRepo.UpdateColumnsWhere(ctx, map[string]any{"last_login": at}, "id = ?", id)
	if err != nil {
		return translateError(err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// translateError maps storage errors onto package sentinels
func translateError(err error) error {
	switch {
	case db.IsNotFound(err):
		return ErrUserNotFound
	case db.IsUniqueViolation(err):
		return ErrUsernameAlreadyExists
	default:
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
}
