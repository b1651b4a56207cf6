package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkiryanov/sessionauth/internal/apperrors"
	"github.com/nkiryanov/sessionauth/internal/models"
	"github.com/nkiryanov/sessionauth/internal/repository"
	"github.com/nkiryanov/sessionauth/internal/service/validate"
)

// Cache of public user profiles
// Misses and cache failures fall through to the store
//
// Each profile has a generation bumped by Invalidate. Get returns it on miss,
// and Set skips the profile if the generation moved since, so a profile read
// before a concurrent update is never cached.
type ProfileCache interface {
	Get(ctx context.Context, userID int64) (user models.PublicUser, found bool, gen int64, err error)
	Set(ctx context.Context, user models.PublicUser, gen int64) error
	Invalidate(ctx context.Context, userID int64) error
}

type noCache struct{}

func (noCache) Get(context.Context, int64) (models.PublicUser, bool, int64, error) {
	return models.PublicUser{}, false, 0, nil
}
func (noCache) Set(context.Context, models.PublicUser, int64) error { return nil }
func (noCache) Invalidate(context.Context, int64) error              { return nil }

type UserService struct {
	hasher  PasswordHasher
	storage repository.Storage
	cache   ProfileCache
}

func NewService(hasher PasswordHasher, storage repository.Storage, cache ProfileCache) *UserService {
	if hasher == nil {
		hasher = DefaultHasher
	}
	if cache == nil {
		cache = noCache{}
	}

	return &UserService{
		hasher:  hasher,
		storage: storage,
		cache:   cache,
	}
}

// Create user with unique email
// All fields are required, username, email and password have to be well formed
func (s *UserService) CreateUser(ctx context.Context, username string, email string, password string) (models.User, error) {
	var user models.User

	if err := validate.Required("username", username, "email", email, "password", password); err != nil {
		return user, err
	}
	for _, err := range []error{validate.Username(username), validate.Email(email), validate.Password(password)} {
		if err != nil {
			return user, err
		}
	}

	_, err := s.storage.User().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return user, apperrors.ErrUserAlreadyExists
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return user, fmt.Errorf("can't check user existence: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password: %w", err)
	}

	// Unique index catches concurrent registrations with the same email
	user, err = s.storage.User().CreateUser(ctx, username, email, hash)
	if err != nil {
		return user, fmt.Errorf("can't create user: %w", err)
	}

	return user, nil
}

// Find user by email and check the password
func (s *UserService) CheckCredentials(ctx context.Context, email string, password string) (models.User, error) {
	if err := validate.Required("email", email, "password", password); err != nil {
		return models.User{}, err
	}

	user, err := s.storage.User().GetUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}

	if !user.IsActive {
		return models.User{}, apperrors.ErrUserInactive
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		return models.User{}, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// Get public user profile
// Return nil without error if user not exists
func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*models.PublicUser, error) {
	cached, ok, gen, cacheErr := s.cache.Get(ctx, userID)
	if cacheErr == nil && ok {
		return &cached, nil
	}

	user, err := s.storage.User().GetUserByID(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("can't get user: %w", err)
	}

	public := user.Public()
	if cacheErr == nil {
		_ = s.cache.Set(ctx, public, gen)
	}

	return &public, nil
}

// Update username and/or email, at least one has to be set
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.PublicUser, error) {
	if update.Username == nil && update.Email == nil {
		return models.PublicUser{}, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}
	if update.Username != nil {
		if err := validate.Username(*update.Username); err != nil {
			return models.PublicUser{}, err
		}
	}
	if update.Email != nil {
		if err := validate.Email(*update.Email); err != nil {
			return models.PublicUser{}, err
		}
	}

	user, err := s.storage.User().UpdateProfile(ctx, userID, update)
	if err != nil {
		return models.PublicUser{}, err
	}

	// Stale profile must not be served, neither cached nor cached by a reader in flight
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		return models.PublicUser{}, fmt.Errorf("can't invalidate cached profile: %w", err)
	}

	return user.Public(), nil
}
