package models

// BlacklistedToken records a revoked refresh token by its JWT ID
type BlacklistedToken struct {
	JTI       string `gorm:"primaryKey;column:jti;size:64"`
	UserID    string `gorm:"column:user_id;size:64;not null;index:idx_blacklisted_tokens_user_id"`
	ExpiresAt int64  `gorm:"column:expires_at;not null;index:idx_blacklisted_tokens_expires_at"`
	CreatedAt int64  `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for BlacklistedToken
func (BlacklistedToken) TableName() string {
	return "blacklisted_tokens"
}
