package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/models"
)

// UserFinder loads users by their external id.
type UserFinder interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Resolver turns an Authorization header value into a user.
type Resolver struct {
	tokens *TokenCodec
	users  UserFinder
}

func NewResolver(tokens *TokenCodec, users UserFinder) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve returns (nil, nil) for an absent header or a token whose user no
// longer exists. A present but unverifiable token is an error.
func (r *Resolver) Resolve(ctx context.Context, header string) (*models.User, error) {
	token := bearerToken(header)
	if token == "" {
		return nil, nil
	}
	subject, err := r.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	u, err := r.users.GetUserByID(ctx, subject)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// bearerToken accepts both "Bearer <token>" and a bare token.
func bearerToken(header string) string {
	v := strings.TrimSpace(header)
	if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
		v = strings.TrimSpace(v[7:])
	}
	return v
}
