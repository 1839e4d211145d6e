package auth

import (
	"context"

	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/models"
)

type ctxKey struct{}

// WithUser stores the authenticated user for the rest of the request.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}

// RequireUser is the guard in front of every operation that needs a
// signed-in caller.
func RequireUser(ctx context.Context) (*models.User, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return nil, errs.ErrUnauthenticated
	}
	return u, nil
}
