// Package rest wires the HTTP surface: routes, middleware, and the shared
// health endpoints.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Xazratbek/storybridge-net/infrastructure/config"
	"github.com/Xazratbek/storybridge-net/interfaces/http/rest/handlers"
	"github.com/Xazratbek/storybridge-net/interfaces/http/rest/middleware"
	"github.com/Xazratbek/storybridge-net/pkg/auth"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	validator *auth.JWTValidator
	memories  *handlers.MemoryHandler
	media     *handlers.MediaHandler
	dashboard *handlers.DashboardHandler
	reference *handlers.ReferenceHandler
	authn     *handlers.AuthHandler
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	validator *auth.JWTValidator,
	memories *handlers.MemoryHandler,
	media *handlers.MediaHandler,
	dashboard *handlers.DashboardHandler,
	reference *handlers.ReferenceHandler,
	authn *handlers.AuthHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		validator: validator,
		memories:  memories,
		media:     media,
		dashboard: dashboard,
		reference: reference,
		authn:     authn,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints stay open; everything else needs a session.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", rt.authn.SignUp)
			r.Post("/signin", rt.authn.SignIn)
			r.Post("/signout", rt.authn.SignOut)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(rt.validator, rt.cfg.LoginURL, rt.logger))
				r.Get("/session", rt.authn.Session)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.validator, rt.cfg.LoginURL, rt.logger))

			r.Route("/memories", func(r chi.Router) {
				r.Post("/", rt.memories.CreateMemory)
				r.Get("/", rt.memories.ListMemories)
				r.Get("/{memoryID}", rt.memories.GetMemory)
				r.Put("/{memoryID}", rt.memories.UpdateMemory)
				r.Delete("/{memoryID}", rt.memories.DeleteMemory)

				r.Post("/{memoryID}/media", rt.media.Upload)
				r.Get("/{memoryID}/media/{mediaID}", rt.media.Stream)
			})

			r.Get("/timeline", rt.memories.Timeline)
			r.Get("/dashboard", rt.memories.Dashboard)

			r.Route("/dashboard/session", func(r chi.Router) {
				r.Get("/", rt.dashboard.View)
				r.Post("/retry", rt.dashboard.Retry)
				r.Post("/delete/{memoryID}", rt.dashboard.RequestDelete)
				r.Post("/delete/confirm", rt.dashboard.ConfirmDelete)
				r.Post("/delete/cancel", rt.dashboard.CancelDelete)
			})

			r.Get("/prompts", rt.reference.Prompts)
			r.Get("/categories", rt.reference.Categories)
			r.Get("/profile", rt.reference.Profile)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
