package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spaarke/workspace-engine/internal/application/assist"
	"github.com/spaarke/workspace-engine/internal/application/portfolio"
	"github.com/spaarke/workspace-engine/internal/application/scoring"
	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/domain/workspace"
	"github.com/spaarke/workspace-engine/internal/infrastructure/database/redis"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/spaarke/workspace-engine/internal/interfaces/http/handlers"
	"github.com/spaarke/workspace-engine/internal/interfaces/http/middleware"
)

type staticSource struct{}

func (staticSource) Snapshot(context.Context, string) (*workspace.PortfolioSnapshot, error) {
	return &workspace.PortfolioSnapshot{}, nil
}

// newTestRouter wires the full route tree with in-process dependencies so
// every workspace route is registered behind the auth gate.
func newTestRouter() http.Handler {
	log := logging.NewNopLogger()

	auth := middleware.NewAuthMiddleware(&config.AuthConfig{
		APIKeys: map[string]string{"router-test-key": "tester@spaarke.dev"},
	}, log)

	aggregator := portfolio.NewAggregator(staticSource{}, redis.NewMemoryCache(), 15*time.Minute, log)
	briefing := portfolio.NewBriefingService(aggregator, nil, nil, log)

	orchestrator := scoring.NewOrchestrator(
		scoring.NewPriorityScorer(),
		scoring.NewEffortScorer(),
		log,
	)

	summaries := assist.NewSummaryService(nil, log)
	prefill := assist.NewPreFillService(nil, nil, 10<<20, log)

	return NewRouter(RouterConfig{
		WorkspaceHandler: handlers.NewWorkspaceHandler(aggregator, briefing),
		ScoringHandler:   handlers.NewScoringHandler(orchestrator, nil, log),
		AssistHandler:    handlers.NewAssistHandler(summaries, prefill, log),
		AuthMiddleware:   auth,
		Logger:           log,
		Metrics:          prometheus.NewMetrics("routertest"),
	})
}

func TestRouter_HealthzNoAuth(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_ReadyzNoAuth(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MetricsNoAuth(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_WorkspaceRequiresAuth(t *testing.T) {
	router := newTestRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/workspace/portfolio"},
		{http.MethodGet, "/workspace/health"},
		{http.MethodGet, "/workspace/briefing"},
		{http.MethodPost, "/workspace/calculate-scores"},
		{http.MethodGet, "/workspace/events/evt-001/scores"},
		{http.MethodPost, "/workspace/ai/summary"},
		{http.MethodPost, "/workspace/matters/pre-fill"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestRouter_ValidAPIKeyReachesWorkspace(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/workspace/portfolio", nil)
	req.Header.Set("X-API-Key", "router-test-key")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"activeMatters"`)
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_NilHandlersNoPanic(t *testing.T) {
	router := NewRouter(RouterConfig{Logger: logging.NewNopLogger()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
