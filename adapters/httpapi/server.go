// Package httpapi exposes the simulation and calibration services over a
// JSON HTTP interface.
package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"episbc/app"
	"episbc/internal/config"
	engine "episbc/internal/sbc"
	"episbc/ports"
)

// Config holds HTTP server configuration
type Config struct {
	Port           string
	RequestTimeout time.Duration
	Study          config.StudyConfig
}

// Server wires the application services into a chi router
type Server struct {
	router     *chi.Mux
	config     Config
	simulation *app.SimulationService
	study      *app.StudyService
	calibrator ports.Calibrator
	gatherer   prometheus.Gatherer
}

// NewServer creates the HTTP server. A nil calibrator selects the default
// calibration engine; a nil gatherer hides the /metrics endpoint.
func NewServer(cfg Config, simulation *app.SimulationService, study *app.StudyService, calibrator ports.Calibrator, gatherer prometheus.Gatherer) *Server {
	if calibrator == nil {
		calibrator = engine.NewEngine(nil)
	}

	s := &Server{
		router:     chi.NewRouter(),
		config:     cfg,
		simulation: simulation,
		study:      study,
		calibrator: calibrator,
		gatherer:   gatherer,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.config.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.config.RequestTimeout))
	}
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		s.router.Get("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	}

	// Simulation endpoints
	s.router.Post("/api/simulations", s.handleGenerateBatch)
	s.router.Post("/api/simulations/replay", s.handleReplay)

	// Calibration endpoints
	s.router.Post("/api/calibration/ranks", s.handleRanks)
	s.router.Post("/api/calibration/curve", s.handleCurve)
	s.router.Post("/api/calibration/recovery", s.handleRecovery)

	// Study endpoints
	s.router.Post("/api/studies", s.handleRunStudy)
	s.router.Get("/api/studies", s.handleListStudies)
	s.router.Get("/api/studies/{id}", s.handleGetStudy)
}

// Router returns the configured handler for mounting or testing
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := ":" + s.config.Port
	log.Printf("[Server] Listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": app.Version,
	})
}
