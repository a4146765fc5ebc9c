package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jayjaytrn/storefront/internal/respond"
	"github.com/jayjaytrn/storefront/models"
	"go.uber.org/zap"
)

type actorKey struct{}

type TokenParser interface {
	ParseAccess(token string) (models.Actor, error)
}

// ValidateAuth requires a bearer access token and stores the caller in the request context.
func ValidateAuth(tokens TokenParser) Middleware {
	return func(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.Message(w, http.StatusUnauthorized, "authorization header is missing")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				respond.Message(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			actor, err := tokens.ParseAccess(tokenString)
			if err != nil {
				sugar.Infow("invalid token", "error", err)
				respond.Message(w, http.StatusUnauthorized, "invalid token")
				return
			}

			h.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireStaff must run after ValidateAuth.
func RequireStaff(h http.Handler, sugar *zap.SugaredLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			respond.Message(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !actor.IsStaff() {
			sugar.Infow("staff route refused", "user", actor.Username, "path", r.URL.Path)
			respond.Message(w, http.StatusForbidden, "staff role required")
			return
		}

		h.ServeHTTP(w, r)
	})
}

func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(models.Actor)
	return actor, ok
}
