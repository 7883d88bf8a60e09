package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kodbank/kodbank-api/internal/logger"
	"github.com/kodbank/kodbank-api/internal/services"
)

// Authenticator defines the minimal interface needed by the middleware.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (*services.Session, error)
}

// sessionKey is an unexported context key type for the request session.
type sessionKey struct{}

// AuthMiddleware validates the bearer token on every request and exposes
// the resulting session to downstream handlers via the request context.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			session, err := auth.Authenticate(ctx, r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				// A presence-store outage is not a credential failure: the
				// token may be perfectly valid.
				if !errors.Is(err, services.ErrUnauthenticated) {
					logger.Log.Errorw("authorization check failed", "err", err)
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
					return
				}
				logger.Log.Infow("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}

			next.ServeHTTP(w, r.WithContext(SetSessionToContext(ctx, session)))
		})
	}
}

// SetSessionToContext stores an authenticated session in the context.
func SetSessionToContext(ctx context.Context, session *services.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext retrieves the authenticated session from the
// context. Returns nil outside AuthMiddleware.
func GetSessionFromContext(ctx context.Context) *services.Session {
	session, _ := ctx.Value(sessionKey{}).(*services.Session)
	return session
}
