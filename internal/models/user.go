package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// User is an account. Email is unique exactly as stored.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:'user'" json:"role"`
	AuthProvider string    `gorm:"size:20;not null;default:'email'" json:"-"`
	AvatarURL    *string   `gorm:"size:500" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.AuthProvider == "" {
		u.AuthProvider = ProviderEmail
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
