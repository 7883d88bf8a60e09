package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kodbank/kodbank-api/internal/logger"
	"github.com/kodbank/kodbank-api/internal/middlewares"
	"github.com/kodbank/kodbank-api/internal/models"
	"github.com/kodbank/kodbank-api/internal/services"
)

// ProfileReader defines the interface that the service must implement.
type ProfileReader interface {
	GetProfile(ctx context.Context, username string) (*models.Profile, error)
}

// ProfileResponse represents a successful profile response
// swagger:model ProfileResponse
type ProfileResponse struct {
	// Username
	// example: john_doe
	Username string `json:"username"`

	// Email
	// example: john@example.com
	Email string `json:"email"`

	// Phone number
	// example: 555-0100
	Phone string `json:"phone"`

	// Account role
	// example: Customer
	Role string `json:"role"`
}

// ProfileErrorResponse represents an error response when fetching a profile
// swagger:model ProfileErrorResponse
type ProfileErrorResponse struct {
	// Error message
	// example: Unauthorized
	Error string `json:"error"`
}

// NewProfileHandler returns an HTTP handler for fetching the profile of the
// authenticated user.
// @Summary Get account profile
// @Description Returns username, email, phone and role of the authenticated account
// @Tags account
// @Produce json
// @Success 200 {object} handlers.ProfileResponse "Account profile"
// @Failure 401 {object} handlers.ProfileErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ProfileErrorResponse "User not found"
// @Failure 500 {object} handlers.ProfileErrorResponse "Internal server error"
// @Router /profile [get]
// @Security BearerAuth
func NewProfileHandler(svc ProfileReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("Content-Type", "application/json")

		session := middlewares.GetSessionFromContext(ctx)
		if session == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProfileErrorResponse{Error: "Unauthorized"})
			return
		}

		profile, err := svc.GetProfile(ctx, session.Username)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ProfileErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("failed to get profile", "username", session.Username, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProfileErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ProfileResponse{
			Username: profile.Username,
			Email:    profile.Email,
			Phone:    profile.Phone,
			Role:     profile.Role,
		})
	}
}
