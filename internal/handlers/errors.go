package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/nkiryanov/sessionauth/internal/apperrors"
	"github.com/nkiryanov/sessionauth/internal/handlers/render"
	"github.com/nkiryanov/sessionauth/internal/logger"
)

// Render service error by its kind
// Internal errors are logged and never shown to client as is
func renderServiceError(w http.ResponseWriter, err error, l logger.Logger) {
	kind := apperrors.KindOf(err)
	if kind == apperrors.KindInternal {
		l.Error("request failed", "error", err)
		render.ServiceError(w, kind, "Internal server error")
		return
	}

	render.ServiceError(w, kind, errorMessage(err))
}

// Sentinel text without wrapping context
func errorMessage(err error) string {
	for _, sentinel := range []error{
		apperrors.ErrUserAlreadyExists,
		apperrors.ErrUserNotFound,
		apperrors.ErrUserInactive,
		apperrors.ErrInvalidToken,
		apperrors.ErrRefreshTokenNotFound,
		apperrors.ErrInvalidCredentials,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return strings.TrimPrefix(err.Error(), apperrors.ErrValidation.Error()+": ")
}
