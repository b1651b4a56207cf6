package apperrors

import (
	"errors"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user is not active")
	ErrInvalidCredentials = errors.New("invalid password")

	ErrInvalidToken         = errors.New("invalid token")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// Kind is a stable error class the transport layer maps to its own responses
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindConflict:
		return "conflict_error"
	case KindNotFound:
		return "not_found_error"
	case KindForbidden:
		return "forbidden_error"
	case KindUnauthorized:
		return "unauthorized_error"
	default:
		return "internal_error"
	}
}

// KindOf classifies err by the well known error it wraps.
// Anything unknown (db, cache or crypto failures) is internal.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrUserAlreadyExists):
		return KindConflict
	case errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrUserInactive):
		return KindForbidden
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrRefreshTokenNotFound):
		return KindUnauthorized
	default:
		return KindInternal
	}
}
