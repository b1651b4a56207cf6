package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/nkiryanov/sessionauth/internal/apperrors"
	"github.com/nkiryanov/sessionauth/internal/handlers/render"
	"github.com/nkiryanov/sessionauth/internal/handlers/userctx"
	"github.com/nkiryanov/sessionauth/internal/logger"
	"github.com/nkiryanov/sessionauth/internal/models"
)

const (
	refreshCookieName = "refreshToken"
	accessHeaderName  = "Authorization"
	accessAuthScheme  = "Bearer"
)

type refreshCookie struct {
	secure bool
	maxAge int
}

func newRefreshCookie(cfg CookieConfig) refreshCookie {
	return refreshCookie{secure: cfg.Secure, maxAge: int(cfg.MaxAge / time.Second)}
}

func (c refreshCookie) set(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Set refresh cookie and access header
func (c refreshCookie) write(w http.ResponseWriter, pair models.TokenPair) {
	w.Header().Set(accessHeaderName, accessAuthScheme+" "+pair.Access.Value)
	c.set(w, pair.Refresh.Value, c.maxAge)
}

func (c refreshCookie) clear(w http.ResponseWriter) {
	c.set(w, "", -1)
}

type tokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	User models.PublicUser `json:"user"`
	tokensResponse
}

func newTokensResponse(pair models.TokenPair) tokensResponse {
	return tokensResponse{AccessToken: pair.Access.Value, RefreshToken: pair.Refresh.Value}
}

func handleRegister(authService authService, cookie refreshCookie, logger logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,max=255,address"`
		Password string `json:"password" validate:"required,max=72"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		res, err := authService.Register(r.Context(), data.Username, data.Email, data.Password)
		if err != nil {
			renderServiceError(w, err, logger)
			return
		}

		cookie.write(w, res.Tokens)
		render.JSON(w, authResponse{User: res.User, tokensResponse: newTokensResponse(res.Tokens)})
	})
}

func handleLogin(authService authService, cookie refreshCookie, logger logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		res, err := authService.Login(r.Context(), data.Email, data.Password)
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound), errors.Is(err, apperrors.ErrInvalidCredentials):
			// Do not tell which one is wrong
			render.ServiceError(w, apperrors.KindUnauthorized, "Invalid email or password")
			return
		case err != nil:
			renderServiceError(w, err, logger)
			return
		}

		cookie.write(w, res.Tokens)
		render.JSON(w, authResponse{User: res.User, tokensResponse: newTokensResponse(res.Tokens)})
	})
}

func handleRefresh(authService authService, cookie refreshCookie, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(refreshCookieName)
		if err != nil || c.Value == "" {
			render.ServiceError(w, apperrors.KindValidation, "Refresh token is required")
			return
		}

		pair, err := authService.Refresh(r.Context(), c.Value)
		if err != nil {
			renderServiceError(w, err, logger)
			return
		}

		cookie.write(w, pair)
		render.JSON(w, newTokensResponse(pair))
	})
}

func handleLogout(authService authService, cookie refreshCookie, logger logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := userctx.FromContext(r.Context())

		if err := authService.Logout(r.Context(), claims.UserID); err != nil {
			renderServiceError(w, err, logger)
			return
		}

		cookie.clear(w)
		render.JSON(w, response{Message: "Logged out successfully"})
	})
}
