// Package server provides HTTP server management and lifecycle handling for
// the rxcompare API: router setup, middleware configuration, route wiring
// and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rxcompare/rxcompare-api/config"
	"github.com/rxcompare/rxcompare-api/handlers"
	"github.com/rxcompare/rxcompare-api/interfaces"
	"github.com/rxcompare/rxcompare-api/logging"
	"github.com/rxcompare/rxcompare-api/metrics"
)

// Dependencies carries everything the routes need.
type Dependencies struct {
	Searcher     handlers.MedicationSearcher
	Details      handlers.DetailsSource
	Alternatives handlers.AlternativesSource
	NDC          handlers.NDCSource
	Resolver     handlers.PriceResolver
	Reference    handlers.ReferenceSource
	Snapshot     interfaces.SnapshotStore
	Safety       handlers.SafetyPipeline
	Health       interfaces.HealthChecker
}

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router chi.Router
	deps   Dependencies
	config *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router: router,
		deps:   deps,
		config: cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RequestSizeMiddleware(s.config))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(RateLimitHandler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/medications/search", handlers.SearchMedications(s.deps.Searcher))
		r.Get("/medications/alternatives", handlers.MedicationAlternatives(s.deps.Alternatives))
		r.Get("/medications/safety", handlers.MedicationSafety(s.deps.Safety))
		r.Get("/medications/ndc/{ndc}", handlers.LookupNDC(s.deps.NDC))
		r.Get("/medications/{rxcui}/details", handlers.MedicationDetails(s.deps.Details))

		r.Get("/prices/compare", handlers.ComparePrices(s.deps.Resolver, s.deps.Reference, s.deps.Snapshot))
		r.Get("/pharmacies", handlers.NearbyPharmacies())
		r.Post("/safety/format", handlers.FormatSafetyInfo(s.deps.Safety))

		r.Get("/health", handlers.HealthCheck(s.deps.Health))
	})

	s.router.Handle("/metrics", promhttp.Handler())
}

// Start begins listening. It blocks until the server stops.
func (s *Server) Start() error {
	logging.Info("Starting server", "addr", s.server.Addr, "env", s.config.Env)
	return s.server.ListenAndServe()
}

// Shutdown attempts a graceful shutdown, forcing a close when the context
// expires first.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		return s.server.Close()
	}
	return nil
}

// Router exposes the configured router for tests.
func (s *Server) Router() chi.Router {
	return s.router
}
