package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder who can own restaurants.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:idx_users_email"`
	Username     string    `gorm:"column:username;not null;uniqueIndex:idx_users_username"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	UniqueID     string    `gorm:"column:unique_id;not null;uniqueIndex:idx_users_unique_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
