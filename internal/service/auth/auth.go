package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkiryanov/sessionauth/internal/apperrors"
	"github.com/nkiryanov/sessionauth/internal/models"
	"github.com/nkiryanov/sessionauth/internal/repository"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// Issue and verify token pairs
type TokenManager interface {
	IssuePair(claims models.Claims) (models.TokenPair, error)
	VerifyAccess(token string) (models.Claims, error)
	VerifyRefresh(token string) (models.Claims, error)
}

// Create users and check their credentials
type UserService interface {
	CreateUser(ctx context.Context, username string, email string, password string) (models.User, error)
	CheckCredentials(ctx context.Context, email string, password string) (models.User, error)
}

type Config struct {
	// How long the stored refresh token is accepted
	// Independent of refresh token expiration, whichever ends first wins
	SessionTTL time.Duration

	// Clock, time.Now if not set
	Now func() time.Time
}

// Auth service
type AuthService struct {
	sessionTTL time.Duration
	now        func() time.Time

	tokens  TokenManager
	users   UserService
	storage repository.Storage
}

func NewService(cfg Config, tokens TokenManager, users UserService, storage repository.Storage) (*AuthService, error) {
	if tokens == nil || users == nil || storage == nil {
		return nil, errors.New("token manager, user service and storage must not be nil")
	}

	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &AuthService{
		sessionTTL: cfg.SessionTTL,
		now:        cfg.Now,
		tokens:     tokens,
		users:      users,
		storage:    storage,
	}, nil
}

// Register new user and start the session
func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (models.AuthResult, error) {
	user, err := s.users.CreateUser(ctx, username, email, password)
	if err != nil {
		return models.AuthResult{}, err
	}

	return s.startSession(ctx, user)
}

// Login with email and password, previous session is replaced
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.AuthResult, error) {
	user, err := s.users.CheckCredentials(ctx, email, password)
	if err != nil {
		return models.AuthResult{}, err
	}

	return s.startSession(ctx, user)
}

// Exchange refresh token for the new pair
// Refresh token is single use: the stored one is replaced in the same transaction
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	var pair models.TokenPair

	claims, err := s.tokens.VerifyRefresh(refresh)
	if err != nil {
		return pair, err
	}

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		// Lock user row, so concurrent refresh with the same token waits here
		user, err := storage.User().GetUserByRefreshToken(ctx, claims.UserID, refresh, s.now())
		if err != nil {
			return err
		}

		// Claims taken from the store: email may be changed since token was issued
		pair, err = s.tokens.IssuePair(user.Claims())
		if err != nil {
			return fmt.Errorf("token could not be generated: %w", err)
		}

		return storage.User().RotateRefreshToken(ctx, user.ID, refresh, s.session(pair.Refresh))
	})
	if err != nil {
		return models.TokenPair{}, err
	}

	return pair, nil
}

// Forget stored refresh token
// Access tokens stay valid until they expire
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	err := s.storage.User().UpdateRefreshToken(ctx, userID, nil)
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("can't clear refresh token: %w", err)
	}
	return nil
}

// Verify access token and return claims it carries
func (s *AuthService) Authenticate(_ context.Context, access string) (models.Claims, error) {
	return s.tokens.VerifyAccess(access)
}

func (s *AuthService) startSession(ctx context.Context, user models.User) (models.AuthResult, error) {
	pair, err := s.tokens.IssuePair(user.Claims())
	if err != nil {
		return models.AuthResult{}, fmt.Errorf("token could not be generated: %w", err)
	}

	session := s.session(pair.Refresh)
	if err := s.storage.User().UpdateRefreshToken(ctx, user.ID, &session); err != nil {
		return models.AuthResult{}, fmt.Errorf("can't store refresh token: %w", err)
	}

	return models.AuthResult{User: user.Public(), Tokens: pair}, nil
}

// Refresh token as it is stored: session ends in sessionTTL from now
func (s *AuthService) session(refresh models.IssuedToken) models.IssuedToken {
	return models.IssuedToken{
		Value:     refresh.Value,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
}
