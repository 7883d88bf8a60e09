package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kodbank/kodbank-api/internal/logger"
	"github.com/kodbank/kodbank-api/internal/middlewares"
	"github.com/kodbank/kodbank-api/internal/services"
)

// BalanceReader defines the interface that the service must implement.
type BalanceReader interface {
	GetBalance(ctx context.Context, username string) (decimal.Decimal, error)
}

// BalanceResponse represents a successful balance response
// swagger:model BalanceResponse
type BalanceResponse struct {
	// Username
	// example: john_doe
	Username string `json:"username"`

	// Account balance, fixed-point with two decimal places
	// example: 100000.00
	Balance string `json:"balance"`
}

// BalanceErrorResponse represents an error response when fetching balance
// swagger:model BalanceErrorResponse
type BalanceErrorResponse struct {
	// Error message
	// example: Unauthorized
	Error string `json:"error"`
}

// NewBalanceHandler returns an HTTP handler for fetching the account
// balance of the authenticated user.
// @Summary Get account balance
// @Description Returns the balance of the authenticated account
// @Tags account
// @Produce json
// @Success 200 {object} handlers.BalanceResponse "Account balance"
// @Failure 401 {object} handlers.BalanceErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.BalanceErrorResponse "User not found"
// @Failure 500 {object} handlers.BalanceErrorResponse "Internal server error"
// @Router /balance [get]
// @Security BearerAuth
func NewBalanceHandler(svc BalanceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("Content-Type", "application/json")

		session := middlewares.GetSessionFromContext(ctx)
		if session == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "Unauthorized"})
			return
		}

		balance, err := svc.GetBalance(ctx, session.Username)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("failed to get balance", "username", session.Username, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(BalanceErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(BalanceResponse{
			Username: session.Username,
			Balance:  balance.StringFixed(2),
		})
	}
}
