package models

import (
	"time"
)

// Identity embedded into access and refresh tokens
type Claims struct {
	UserID int64
	Email  string
}

func (u User) Claims() Claims {
	return Claims{UserID: u.ID, Email: u.Email}
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issues by TokenManager, AuthService
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

// Result of successful register or login
type AuthResult struct {
	User   PublicUser
	Tokens TokenPair
}
