// Package api provides the HTTP API server and handlers for the Linkloft application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/linkloftapp/linkloft-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store store.Store, services *Services, logger *slog.Logger) *Server {
	s := &Server{
		store:    store,
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	// Middleware must be attached before humachi registers any routes.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Linkloft API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerBookmarkRoutes()
	s.registerTagRoutes()
	s.registerInviteRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}
