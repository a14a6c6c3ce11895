package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouteDeps holds the dependencies needed to build the routes
type RouteDeps struct {
	Handler        Handler
	AuthMiddleware func(http.Handler) http.Handler
	Metrics        http.Handler
	Logger         *zap.SugaredLogger
	Version        string
	Environment    string
}

// RegisterRoutes configures all routes for the application
func RegisterRoutes(r chi.Router, deps RouteDeps) {
	// Set up middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Add CORS headers for development
	if deps.Environment != "production" {
		r.Use(middleware.SetHeader("Access-Control-Allow-Origin", "*"))
		r.Use(middleware.SetHeader("Access-Control-Allow-Methods", "GET, POST, OPTIONS"))
		r.Use(middleware.SetHeader("Access-Control-Allow-Headers", "Content-Type, Authorization"))
	}

	// Register health check routes
	RegisterHealthRoutes(r, deps.Logger, deps.Version, deps.Environment)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Post("/register", deps.Handler.Register)
			r.Post("/validate", deps.Handler.Validate)
		})
		r.Get("/primes/{n}", deps.Handler.CheckPrime)

		// Private routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMiddleware)
			r.Get("/me", deps.Handler.GetCurrentUser)
		})
	})

	// Not found handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		if _, err := w.Write([]byte(`{"error":"Not found"}`)); err != nil {
			deps.Logger.Debugw("Failed to write response", "error", err)
		}
	})

	// Method not allowed handler
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		if _, err := w.Write([]byte(`{"error":"Method not allowed"}`)); err != nil {
			deps.Logger.Debugw("Failed to write response", "error", err)
		}
	})
}
