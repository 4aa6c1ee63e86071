package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/diaryhq/diary-server/internal/domain"
	"github.com/diaryhq/diary-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// actorKey is the context key for the authenticated user.
const actorKey ctxKey = "actor"

// actorFrom returns the authenticated user, or nil for an anonymous caller.
// Services decide whether anonymous access is allowed.
func actorFrom(ctx context.Context) *domain.User {
	user, _ := ctx.Value(actorKey).(*domain.User)
	return user
}

// withActor stores the authenticated user in context.
func withActor(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, actorKey, user)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authMiddleware returns a middleware that validates Bearer tokens and stores the user in context.
// If no token is present or it is invalid, the request continues anonymously.
// Handlers pass actorFrom(ctx) to the services, which reject anonymous callers where required.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				// Invalid token - continue without user (services reject if auth required)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), user)))
		})
	}
}
