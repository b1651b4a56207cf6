package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/sessionauth/internal/apperrors"
	"github.com/nkiryanov/sessionauth/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (username, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id, username, email, password_hash, refresh_token, token_expires_at, is_active, created_at, updated_at
`

func (r *UserRepo) CreateUser(ctx context.Context, username string, email string, passwordHash string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, username, email, passwordHash)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case isUniqueViolation(err):
		return user, apperrors.ErrUserAlreadyExists
	case isValueTooLong(err):
		return user, fmt.Errorf("%w: value is too long", apperrors.ErrValidation)
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const getUserByID = `-- name: GetUserByID
SELECT id, username, email, password_hash, refresh_token, token_expires_at, is_active, created_at, updated_at
FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, userID int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, userID)
	return collectUser(rows, apperrors.ErrUserNotFound)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT id, username, email, password_hash, refresh_token, token_expires_at, is_active, created_at, updated_at
FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows, apperrors.ErrUserNotFound)
}

const updateRefreshToken = `-- name: UpdateRefreshToken
UPDATE users
SET refresh_token = $2, token_expires_at = $3
WHERE id = $1
`

func (r *UserRepo) UpdateRefreshToken(ctx context.Context, userID int64, token *models.IssuedToken) error {
	var (
		value     *string
		expiresAt *time.Time
	)
	if token != nil {
		value, expiresAt = &token.Value, &token.ExpiresAt
	}

	tag, err := r.DB.Exec(ctx, updateRefreshToken, userID, value, expiresAt)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrUserNotFound
	default:
		return nil
	}
}

const getUserByRefreshToken = `-- name: GetUserByRefreshToken
SELECT id, username, email, password_hash, refresh_token, token_expires_at, is_active, created_at, updated_at
FROM users
WHERE id = $1 AND refresh_token = $2 AND token_expires_at > $3
FOR UPDATE
`

func (r *UserRepo) GetUserByRefreshToken(ctx context.Context, userID int64, token string, validAt time.Time) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByRefreshToken, userID, token, validAt)
	return collectUser(rows, apperrors.ErrRefreshTokenNotFound)
}

const rotateRefreshToken = `-- name: RotateRefreshToken
UPDATE users
SET refresh_token = $3, token_expires_at = $4
WHERE id = $1 AND refresh_token = $2
`

func (r *UserRepo) RotateRefreshToken(ctx context.Context, userID int64, old string, token models.IssuedToken) error {
	tag, err := r.DB.Exec(ctx, rotateRefreshToken, userID, old, token.Value, token.ExpiresAt)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrRefreshTokenNotFound
	default:
		return nil
	}
}

// Nil parameters keep the column as is
const updateProfile = `-- name: UpdateProfile
UPDATE users
SET username = COALESCE($2, username),
    email = COALESCE($3, email),
    updated_at = NOW()
WHERE id = $1
RETURNING id, username, email, password_hash, refresh_token, token_expires_at, is_active, created_at, updated_at
`

func (r *UserRepo) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateProfile, userID, update.Username, update.Email)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	case isUniqueViolation(err):
		return user, apperrors.ErrUserAlreadyExists
	case isValueTooLong(err):
		return user, fmt.Errorf("%w: value is too long", apperrors.ErrValidation)
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func collectUser(rows pgx.Rows, notFound error) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, notFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.RefreshToken,
		&u.TokenExpiresAt,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isValueTooLong(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.StringDataRightTruncationDataException
}
