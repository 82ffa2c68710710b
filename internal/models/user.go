package models

import (
	"time"

	"gorm.io/gorm"

	"gatekeeper-api/internal/utils"
)

// User represents an account in the system
type User struct {
	ID           string `gorm:"primaryKey;column:id;size:64"`
	Username     string `gorm:"column:username;size:150;not null;uniqueIndex:idx_users_username"`
	Email        string `gorm:"column:email;size:254;not null;default:''"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`
	Active       bool   `gorm:"column:active;default:true;not null"`
	CreatedAt    int64  `gorm:"column:created_at;autoCreateTime:false;not null"`
	ModifiedAt   int64  `gorm:"column:modified_at;autoCreateTime:false;not null"`
	LastLogin    int64  `gorm:"column:last_login;autoCreateTime:false"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook for User
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Stamp()
	return nil
}

// BeforeUpdate hook for User
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.ModifiedAt = time.Now().Unix()
	return nil
}

// Stamp fills the ID and timestamps of a new account when unset
func (u *User) Stamp() {
	now := time.Now().Unix()
	if u.ID == "" {
		u.ID = utils.GenerateUserID()
	}
	if u.CreatedAt == 0 {
		u.CreatedAt = now
	}
	if u.ModifiedAt == 0 {
		u.ModifiedAt = now
	}
}
