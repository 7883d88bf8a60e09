package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/kodbank/kodbank-api/internal/jwt"
	"github.com/kodbank/kodbank-api/internal/logger"
	"github.com/kodbank/kodbank-api/internal/middlewares"
)

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, token string) error
}

// SessionRevoker invalidates cached presence entries for a revoked token.
type SessionRevoker interface {
	RevokeFromCache(ctx context.Context, token string)
}

// LogoutResponse represents a successful logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Success message
	// example: Logged out
	Message string `json:"message"`
}

// LogoutErrorResponse represents an error response for logout
// swagger:model LogoutErrorResponse
type LogoutErrorResponse struct {
	// Error message
	// example: Internal server error
	Error string `json:"error"`
}

// NewLogoutHandler returns an HTTP handler for logout. It runs behind the
// auth middleware, so the token in the session is already validated.
// @Summary Log out
// @Description Revokes the presented token server-side and clears the cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Logged out"
// @Failure 401 {object} handlers.LogoutErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.LogoutErrorResponse "Internal server error"
// @Router /logout [post]
// @Security BearerAuth
func NewLogoutHandler(svc Logouter, revoker SessionRevoker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("Content-Type", "application/json")

		session := middlewares.GetSessionFromContext(ctx)
		if session == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(LogoutErrorResponse{Error: "Unauthorized"})
			return
		}

		if err := svc.Logout(ctx, session.Token); err != nil {
			logger.Log.Errorw("logout failed", "username", session.Username, "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(LogoutErrorResponse{Error: "Internal server error"})
			return
		}
		revoker.RevokeFromCache(ctx, session.Token)

		http.SetCookie(w, &http.Cookie{
			Name:     jwt.CookieName,
			Value:    "",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Path:     "/",
		})

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LogoutResponse{Message: "Logged out"})
	}
}
