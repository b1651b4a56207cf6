package repository

import (
	"context"
	"time"

	"github.com/nkiryanov/sessionauth/internal/models"
)

// User repository interface
// All methods return apperrors.ErrUserNotFound if user with such id or email not exists
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, email string, passwordHash string) (models.User, error)

	// Get user by it's id or email
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Set user refresh token and it's expiration time
	// Nil token clears both
	UpdateRefreshToken(ctx context.Context, userID int64, token *models.IssuedToken) error

	// Get user only if the token is the current user refresh token and it is not expired at validAt
	// The user row stays locked till the end of the transaction
	// If there is no such user must return apperrors.ErrRefreshTokenNotFound
	GetUserByRefreshToken(ctx context.Context, userID int64, token string, validAt time.Time) (models.User, error)

	// Replace user refresh token only if the current one is still equal to 'old'
	// If it is not (token rotated or cleared already) must return apperrors.ErrRefreshTokenNotFound
	RotateRefreshToken(ctx context.Context, userID int64, old string, token models.IssuedToken) error

	// Update provided fields and return the updated user
	// If email taken by another user has to return apperrors.ErrUserAlreadyExists
	UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error)
}

type Storage interface {
	User() UserRepo

	// Run fn in transaction: commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
