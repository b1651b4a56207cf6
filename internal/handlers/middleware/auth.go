package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nkiryanov/sessionauth/internal/apperrors"
	"github.com/nkiryanov/sessionauth/internal/handlers/render"
	"github.com/nkiryanov/sessionauth/internal/handlers/userctx"
	"github.com/nkiryanov/sessionauth/internal/models"
)

const (
	accessHeaderName = "Authorization"
	accessAuthScheme = "Bearer "
)

type authService interface {
	Authenticate(ctx context.Context, access string) (models.Claims, error)
}

// Read access token from Authorization header and put user claims to request context
// Request without valid token is rejected with 401
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(accessHeaderName)
			access, ok := strings.CutPrefix(header, accessAuthScheme)
			if !ok || access == "" {
				render.ServiceError(w, apperrors.KindUnauthorized, "Unauthorized")
				return
			}

			claims, err := as.Authenticate(r.Context(), access)
			if err != nil {
				render.ServiceError(w, apperrors.KindUnauthorized, "Unauthorized")
				return
			}

			ctx := userctx.New(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
