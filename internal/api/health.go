package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// VersionResponse is returned by the version endpoint
type VersionResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// HealthHandler returns a simple health check handler function
// that responds with a 200 OK status and JSON {"status":"ok"}
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			// The status code has already been sent
			return
		}
	}
}

// VersionHandler reports the running version and environment
func VersionHandler(logger *zap.SugaredLogger, version, env string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(VersionResponse{Version: version, Environment: env}); err != nil {
			logger.Errorw("Failed to encode version response", "error", err)
		}
	}
}

// RegisterHealthRoutes adds /health and /version to r
func RegisterHealthRoutes(r chi.Router, logger *zap.SugaredLogger, version, env string) {
	r.Get("/health", HealthHandler())
	r.Get("/version", VersionHandler(logger, version, env))
}
