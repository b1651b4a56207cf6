package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/nkiryanov/sessionauth/internal/handlers/middleware"
	"github.com/nkiryanov/sessionauth/internal/logger"
	"github.com/nkiryanov/sessionauth/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// Refresh token cookie settings
type CookieConfig struct {
	// Cookie is sent over HTTPS only
	Secure bool

	// Cookie lifetime, should match the stored session lifetime
	MaxAge time.Duration
}

func NewRouter(
	authService authService,
	userService userService,
	cookie CookieConfig,
	logger logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService)
	refreshCookie := newRefreshCookie(cookie)

	apiauth := http.NewServeMux()

	apiauth.Handle("POST /register", handleRegister(authService, refreshCookie, logger))
	apiauth.Handle("POST /login", handleLogin(authService, refreshCookie, logger))
	apiauth.Handle("POST /refresh", handleRefresh(authService, refreshCookie, logger))
	apiauth.Handle("POST /logout", withAuth(handleLogout(authService, refreshCookie, logger)))

	apiauth.Handle("GET /me", withAuth(handleUserMe(userService, logger)))
	apiauth.Handle("PATCH /me", withAuth(handleUpdateMe(userService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/auth/", http.StripPrefix("/api/auth", apiauth))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user, email has to be unique
	// Has to return apperrors.ErrUserAlreadyExists if email is taken
	Register(ctx context.Context, username string, email string, password string) (models.AuthResult, error)

	// Login user with email and password
	// Has to return apperrors.ErrUserNotFound or apperrors.ErrInvalidCredentials on mismatch
	Login(ctx context.Context, email string, password string) (models.AuthResult, error)

	// Exchange refresh token for the new pair
	Refresh(ctx context.Context, refresh string) (models.TokenPair, error)

	// Forget user refresh token
	Logout(ctx context.Context, userID int64) error

	// Verify access token
	Authenticate(ctx context.Context, access string) (models.Claims, error)
}

type userService interface {
	// Has to return nil without error if user not exists
	GetUserByID(ctx context.Context, userID int64) (*models.PublicUser, error)
	UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.PublicUser, error)
}
