package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/spaarke/workspace-engine/internal/interfaces/http/handlers"
	"github.com/spaarke/workspace-engine/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	// Handlers
	WorkspaceHandler *handlers.WorkspaceHandler
	ScoringHandler   *handlers.ScoringHandler
	AssistHandler    *handlers.AssistHandler
	HealthHandler    *handlers.HealthHandler

	// Middleware
	AuthMiddleware    *middleware.AuthMiddleware
	LoggingMiddleware *middleware.LoggingMiddleware
	MetricsMiddleware *middleware.MetricsMiddleware

	// Infrastructure
	Logger  logging.Logger
	Metrics *prometheus.Metrics
}

// NewRouter constructs the complete HTTP route tree from the given
// configuration.  It wires global middleware, the public health and metrics
// endpoints, and the authenticated workspace group into a single
// http.Handler suitable for use with http.Server.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Handler)
	}
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware.Handler)
	}

	// Probes, no auth.
	health := cfg.HealthHandler
	if health == nil {
		health = handlers.NewHealthHandler()
	}
	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/workspace", func(ws chi.Router) {
		if cfg.AuthMiddleware != nil {
			ws.Use(cfg.AuthMiddleware.Authenticate)
		}

		if cfg.WorkspaceHandler != nil {
			ws.Get("/portfolio", cfg.WorkspaceHandler.GetPortfolio)
			ws.Get("/health", cfg.WorkspaceHandler.GetHealth)
			ws.Get("/briefing", cfg.WorkspaceHandler.GetBriefing)
		}
		if cfg.ScoringHandler != nil {
			ws.Post("/calculate-scores", cfg.ScoringHandler.CalculateScores)
			ws.Get("/events/{id}/scores", cfg.ScoringHandler.GetEventScores)
		}
		if cfg.AssistHandler != nil {
			ws.Post("/ai/summary", cfg.AssistHandler.Summarize)
			ws.Post("/matters/pre-fill", cfg.AssistHandler.PreFill)
		}
	})

	return r
}
