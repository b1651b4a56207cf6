package models

import (
	"time"
)

// User as it stored in the database
// Must never leave the service layer as is: use Public() for that
type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	RefreshToken   *string    // nil if user has no active session
	TokenExpiresAt *time.Time // nil if user has no active session
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// User representation without secrets
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Fields user may change in own profile
// Nil means the field was not provided and stays as is
type ProfileUpdate struct {
	Username *string
	Email    *string
}
