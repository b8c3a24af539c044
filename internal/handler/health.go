package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/osse101/ToolForge_Go/internal/logger"
)

// HealthResponse is the body of the probe endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Pinger decides readiness; in practice the database pool
type Pinger interface {
	Ping(ctx context.Context) error
}

const readinessTimeout = 2 * time.Second

var healthy = HealthResponse{Status: "ok"}

// HandleHealthz answers as long as the process can serve HTTP
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, healthy)
	}
}

// HandleReadyz answers 503 until db responds within readinessTimeout.
// A nil db means tools are kept in memory and the service is always ready.
func HandleReadyz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := db.Ping(ctx)
			cancel()
			if err != nil {
				logger.FromContext(r.Context()).Error(LogMsgReadinessFailed, "error", err)
				respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Message: "database connection failed"})
				return
			}
		}
		respondJSON(w, http.StatusOK, healthy)
	}
}
