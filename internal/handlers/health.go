package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// Pinger probes the database connection.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse represents the health-check response
// swagger:model HealthResponse
type HealthResponse struct {
	// Service status
	// example: ok
	Status string `json:"status"`

	// Service name
	// example: kodbank-api
	Service string `json:"service"`

	// Database probe result
	// example: connected
	Database string `json:"database"`
}

// NewHealthHandler returns an HTTP handler reporting service and database
// health. Probe failures are reported without internal error detail.
// @Summary Health check
// @Description Returns service status and database connectivity
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Service health"
// @Router /health [get]
func NewHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbStatus := "connected"
		if err := db.PingContext(r.Context()); err != nil {
			dbStatus = "error"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(HealthResponse{
			Status:   "ok",
			Service:  "kodbank-api",
			Database: dbStatus,
		})
	}
}
