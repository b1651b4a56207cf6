package tokenmanager

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nkiryanov/sessionauth/internal/apperrors"
	"github.com/nkiryanov/sessionauth/internal/models"
)

const (
	defaultAccessTokenTTL  = 5 * time.Minute
	defaultRefreshTokenTTL = 10 * 24 * time.Hour
	defaultSigningMethod   = "HS256"
)

// Claims as they are encoded into the token
// Unknown fields are rejected while decoding: token is either exactly ours or invalid
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"id"`
	Email  string `json:"email"`
}

func (c *Claims) UnmarshalJSON(data []byte) error {
	type plain Claims // same fields without UnmarshalJSON method

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode((*plain)(c))
}

// Called by jwt parser after the registered claims are validated
func (c *Claims) Validate() error {
	switch {
	case c.IssuedAt == nil:
		return errors.New("token has no issued at")
	case c.UserID <= 0:
		return errors.New("token has no user id")
	case c.Email == "":
		return errors.New("token has no email")
	default:
		return nil
	}
}

// Token manager with sensible default
type Config struct {
	// Secrets to sign access and refresh tokens
	// Required to be set and must differ
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Clock, time.Now if not set
	Now func() time.Time
}

type signer struct {
	key []byte
	ttl time.Duration
}

type TokenManager struct {
	alg     jwt.SigningMethod
	access  signer
	refresh signer
	now     func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	switch {
	case cfg.AccessSecret == "" || cfg.RefreshSecret == "":
		return nil, errors.New("access and refresh secrets must not be empty")
	case cfg.AccessSecret == cfg.RefreshSecret:
		return nil, errors.New("access and refresh secrets must differ")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg, ok := jwt.GetSigningMethod(cfg.Alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("signing method %q is not supported, use one of HS256, HS384, HS512", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TokenManager{
		alg:     alg,
		access:  signer{key: []byte(cfg.AccessSecret), ttl: cfg.AccessTTL},
		refresh: signer{key: []byte(cfg.RefreshSecret), ttl: cfg.RefreshTTL},
		now:     cfg.Now,
	}, nil
}

func (m *TokenManager) IssueAccess(claims models.Claims) (models.IssuedToken, error) {
	return m.issue(m.access, claims)
}

func (m *TokenManager) IssueRefresh(claims models.Claims) (models.IssuedToken, error) {
	return m.issue(m.refresh, claims)
}

func (m *TokenManager) IssuePair(claims models.Claims) (models.TokenPair, error) {
	var pair models.TokenPair

	access, err := m.IssueAccess(claims)
	if err != nil {
		return pair, err
	}

	refresh, err := m.IssueRefresh(claims)
	if err != nil {
		return pair, err
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (m *TokenManager) VerifyAccess(token string) (models.Claims, error) {
	return m.verify(m.access, token)
}

func (m *TokenManager) VerifyRefresh(token string) (models.Claims, error) {
	return m.verify(m.refresh, token)
}

func (m *TokenManager) issue(s signer, claims models.Claims) (models.IssuedToken, error) {
	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID: claims.UserID,
			Email:  claims.Email,
		},
	)

	value, err := token.SignedString(s.key)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: value, ExpiresAt: expiresAt}, nil
}

// Parse and validate token: signature, algorithm, expiration and claims shape
func (m *TokenManager) verify(s signer, token string) (models.Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return models.Claims{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}

	return models.Claims{UserID: claims.UserID, Email: claims.Email}, nil
}
