package domain

import (
	"github.com/google/uuid" // UUID generation for ids
	"gorm.io/gorm"           // GORM ORM library
)

// User Model
type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`                  // Primary key
	Username     string `gorm:"uniqueIndex;size:191;not null" json:"username"` // Unique username
	PasswordHash string `gorm:"column:password;size:191;not null" json:"-"`    // Hashed password, never serialized
}

// BeforeCreate assigns a UUID when the id is empty
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
