package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ayush/playlist-api/internal/auth"
	"github.com/ayush/playlist-api/internal/errs"
	"github.com/ayush/playlist-api/internal/graph"
	"github.com/ayush/playlist-api/internal/models"
)

// IdentityResolver maps an Authorization header value to a user.
type IdentityResolver interface {
	Resolve(ctx context.Context, header string) (*models.User, error)
}

// Identity resolves the Authorization header once per request and stores the
// user, if any, in the request context. A missing header leaves the request
// anonymous; a token that fails verification stops it with 401.
func Identity(resolver IdentityResolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			switch {
			case errors.Is(err, errs.ErrInvalidToken):
				writeGraphQLError(w, http.StatusUnauthorized, graph.CodeInvalidToken, errs.ErrInvalidToken.Error())
				return
			case err != nil:
				log.Error("resolve identity", zap.Error(err))
				writeGraphQLError(w, http.StatusInternalServerError, graph.CodeInternal, "internal server error")
				return
			}
			if u != nil {
				r = r.WithContext(auth.WithUser(r.Context(), u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that carry no signed-in user. It runs after
// Identity on the REST routes.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.RequireUser(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": errs.ErrUnauthenticated.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type gqlError struct {
	Message    string            `json:"message"`
	Extensions map[string]string `json:"extensions"`
}

// writeGraphQLError answers in the shape GraphQL clients expect even though
// the request never reached the executor.
func writeGraphQLError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string][]gqlError{
		"errors": {{Message: msg, Extensions: map[string]string{"code": code}}},
	})
}
