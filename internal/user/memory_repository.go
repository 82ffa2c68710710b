package user

import (
	"context"
	"sync"

	"gatekeeper-api/internal/models"
)

// MemoryRepository keeps accounts in process memory.
// Intended for tests and single-instance development setups.
type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]models.User
	byUsername map[string]string
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]models.User),
		byUsername: make(map[string]string),
	}
}

// SaveUser stores the user; check and insert happen under one lock
func (r *MemoryRepository) SaveUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return nil, ErrUsernameAlreadyExists
	}

	user.Stamp()
	r.byID[user.ID] = *user
	r.byUsername[user.Username] = user.ID

	return user, nil
}

// FindUserByID finds a user by ID
func (r *MemoryRepository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// FindUserByUsername finds a user by exact username
func (r *MemoryRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

// RecordLogin sets the account's LastLogin
func (r *MemoryRepository) RecordLogin(ctx context.Context, id string, at int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	user.LastLogin = at
	r.byID[id] = user
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
