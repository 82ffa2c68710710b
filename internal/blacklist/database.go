package blacklist

import (
	"context"
	"fmt"
	"time"

	"gatekeeper-api/internal/models"
	"gatekeeper-api/pkg/db"

	"gorm.io/gorm"
)

// DatabaseStore keeps blacklist entries in the blacklisted_tokens table
type DatabaseStore struct {
	repo db.Repository[models.BlacklistedToken]
	now  func() time.Time
}

// NewDatabaseStore creates a Postgres-backed blacklist
func NewDatabaseStore(database *gorm.DB) *DatabaseStore {
	return &DatabaseStore{
		repo: db.NewRepositoryWithDB[models.BlacklistedToken](database),
		now:  time.Now,
	}
}

// Revoke inserts the token ID; the primary key rejects a second revocation
func (s *DatabaseStore) Revoke(ctx context.Context, jti, userID string, expiresAt time.Time) error {
	if jti == "" {
		return ErrInvalidTokenID
	}

	entry := &models.BlacklistedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt.Unix(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrAlreadyRevoked
		}
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token ID is blacklisted
func (s *DatabaseStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, ErrInvalidTokenID
	}

	found, err := s.repo.Exists(ctx, "jti = ?", jti)
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return found, nil
}

// Purge deletes entries whose tokens have expired and returns how many were removed
func (s *DatabaseStore) Purge(ctx context.Context) (int64, error) {
	return s.repo.DeleteWhere(ctx, "expires_at < ?", s.now().Unix())
}

var (
	_ Store  = (*DatabaseStore)(nil)
	_ Purger = (*DatabaseStore)(nil)
)
