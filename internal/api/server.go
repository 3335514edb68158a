// Package api provides the HTTP API server and handlers for the Shelfwise book-review service.
package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfwise/shelfwise-server/internal/http/response"
	"github.com/shelfwise/shelfwise-server/internal/logger"
	"github.com/shelfwise/shelfwise-server/internal/ratelimit"
)

// Config holds the HTTP-facing settings.
type Config struct {
	Environment   string
	CORSOrigins   []string
	TrustProxy    bool    // resolve the client from forwarding headers
	AuthRateLimit float64 // requests per second per client on /auth/; 0 disables limiting
	AuthRateBurst int
}

func (c Config) production() bool {
	return c.Environment == "production"
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	cfg         Config
	services    *Services
	db          Pinger
	router      *chi.Mux
	api         huma.API
	authLimiter *ratelimit.KeyedRateLimiter
	logger      *logger.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg Config, services *Services, db Pinger, log *logger.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		services: services,
		db:       db,
		router:   chi.NewRouter(),
		logger:   log,
	}
	if cfg.AuthRateLimit > 0 {
		s.authLimiter = ratelimit.New(cfg.AuthRateLimit, max(cfg.AuthRateBurst, 1))
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Shelfwise API", "1.0.0")
	humaConfig.Info.Description = "Book catalogue and reviews."
	// Bodies are the documented envelope; no $schema link field.
	humaConfig.CreateHooks = nil
	humaConfig.Transformers = append(humaConfig.Transformers, s.reportHumaErrors)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(s.router, humaConfig)

	RegisterErrorHandler()

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, s.logger.Logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, s.logger.Logger)
	})

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerSearchRoutes()
	s.registerBookRoutes()
	s.registerReviewRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources.
func (s *Server) Close() {
	if s.authLimiter != nil {
		s.authLimiter.Stop()
	}
}

// setupMiddleware configures the middleware stack. It runs before any route
// is registered, as chi requires.
func (s *Server) setupMiddleware() {
	s.router.Use(requestIDMiddleware)
	if s.cfg.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(s.requestLogger)
	s.router.Use(s.recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if s.authLimiter != nil {
		s.router.Use(s.authRateLimit(s.authLimiter))
	}
}
