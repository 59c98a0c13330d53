// internal/api/handler/system.go
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"customer-portal/internal/api/types"
	"customer-portal/pkg/validation"
)

// Health reports liveness.
// GET /health
func Health(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, logger, http.StatusOK, types.HealthResponse{Status: "ok", Time: time.Now().UTC()})
	}
}

// ValidationSchema serves the input rules so clients validate with the same patterns.
// GET /validation/schema
func ValidationSchema(logger *slog.Logger) http.HandlerFunc {
	schema := validation.Schema()
	return func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, logger, http.StatusOK, schema)
	}
}
