package userctx

import (
	"context"

	"github.com/nkiryanov/sessionauth/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// Create a new context with the authenticated user claims
func New(ctx context.Context, c models.Claims) context.Context {
	return context.WithValue(ctx, userKey, c)
}

// Extract the authenticated user claims from the context
func FromContext(ctx context.Context) (models.Claims, bool) {
	c, ok := ctx.Value(userKey).(models.Claims)
	return c, ok
}
