package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spiceroute/spiceroute-be/internal/api/handlers"
	"github.com/spiceroute/spiceroute-be/internal/auth"
	"github.com/spiceroute/spiceroute-be/internal/config"
	"github.com/spiceroute/spiceroute-be/internal/services"
)

// Deps bundles everything the router needs.
type Deps struct {
	Config   *config.Config
	Accounts services.AccountServiceProvider
	Posts    services.PostServiceProvider
	Events   services.EventServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, // Vite dev server
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	guard := &auth.Guard{Secret: deps.Config.JWTSecret, Accounts: deps.Accounts}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.Accounts, deps.Config.JWTSecret)
	postHandler := handlers.NewPostHandler(deps.Posts, deps.Events, guard)
	adminHandler := handlers.NewAdminHandler(deps.Accounts, deps.Events)
	healthHandler := handlers.NewHealthHandler(deps.Config.DatabasePath != "")

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(guard.Require(auth.TierEditor))
			r.Get("/me", authHandler.Me)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.List)
			r.Get("/{slug}", postHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(guard.Require(auth.TierEditor))
				r.Post("/", postHandler.Create)
				r.Put("/{slug}", postHandler.Update)
				r.Delete("/{slug}", postHandler.Delete)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(guard.Require(auth.TierAdmin))
			r.Get("/editors", adminHandler.ListEditors)
			r.Post("/editors", adminHandler.CreateEditor)
			r.Delete("/editors/{id}", adminHandler.DeleteEditor)
			r.Get("/events", adminHandler.ListEvents)
		})

		// Unmatched /api paths are JSON 404s, never the SPA fallback.
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"not found"}`))
		})
	})

	// Everything outside /api is static-asset / SPA territory.
	r.NotFound(NewSPAHandler(deps.Config.StaticDir).ServeHTTP)

	return r
}
