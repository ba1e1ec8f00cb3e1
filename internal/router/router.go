package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tmcorreia/go-auth-api/internal/api/auth"
	"github.com/tmcorreia/go-auth-api/internal/api/dashboard"
	"github.com/tmcorreia/go-auth-api/internal/api/health"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	AuthHandler            *auth.HandlerImpl
	HealthHandler          *health.HandlerImpl
	DashboardHandler       *dashboard.HandlerImpl
	AuthenticateMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes: no bearer token required.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Get("/health", cfg.HealthHandler.CheckDatabase)
		})

		// Protected routes: valid bearer token required.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)
			r.Get("/dashboard", cfg.DashboardHandler.GetDashboard)
		})
	})

	return r
}
