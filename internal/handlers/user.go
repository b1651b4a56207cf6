package handlers

import (
	"net/http"

	"github.com/nkiryanov/sessionauth/internal/apperrors"
	"github.com/nkiryanov/sessionauth/internal/handlers/render"
	"github.com/nkiryanov/sessionauth/internal/handlers/userctx"
	"github.com/nkiryanov/sessionauth/internal/logger"
	"github.com/nkiryanov/sessionauth/internal/models"
)

func handleUserMe(userService userService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := userctx.FromContext(r.Context())

		user, err := userService.GetUserByID(r.Context(), claims.UserID)
		switch {
		case err != nil:
			renderServiceError(w, err, logger)
		case user == nil:
			render.ServiceError(w, apperrors.KindNotFound, "User not found")
		default:
			render.JSON(w, user)
		}
	})
}

func handleUpdateMe(userService userService, logger logger.Logger) http.Handler {
	type request struct {
		Username *string `json:"username" validate:"omitempty,min=3,max=50"`
		Email    *string `json:"email" validate:"omitempty,max=255,address"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := userctx.FromContext(r.Context())

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := userService.UpdateProfile(r.Context(), claims.UserID, models.ProfileUpdate{
			Username: data.Username,
			Email:    data.Email,
		})
		if err != nil {
			renderServiceError(w, err, logger)
			return
		}

		render.JSON(w, user)
	})
}
