package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spaarke/workspace-engine/internal/application/events"
	"github.com/spaarke/workspace-engine/internal/application/scoring"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// ScoringHandler serves the batch and single-event scoring endpoints.
type ScoringHandler struct {
	orchestrator *scoring.Orchestrator
	publisher    events.Publisher
	metrics      *prometheus.Metrics
	logger       logging.Logger
}

// NewScoringHandler creates the handler.  publisher may be nil.
func NewScoringHandler(orchestrator *scoring.Orchestrator, publisher events.Publisher, logger logging.Logger) *ScoringHandler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ScoringHandler{
		orchestrator: orchestrator,
		publisher:    publisher,
		logger:       logger.Named("scoring_handler"),
	}
}

// WithMetrics attaches a batch-size recorder and returns the handler.
func (h *ScoringHandler) WithMetrics(m *prometheus.Metrics) *ScoringHandler {
	h.metrics = m
	return h
}

type calculateScoresRequest struct {
	Items []scoring.ScoreItem `json:"items"`
}

type calculateScoresResponse struct {
	Results []scoring.ScoreResult `json:"results"`
}

// CalculateScores handles POST /workspace/calculate-scores.
func (h *ScoringHandler) CalculateScores(w http.ResponseWriter, r *http.Request) {
	var req calculateScoresRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	results, err := h.orchestrator.ScoreBatch(r.Context(), req.Items)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveBatch(len(results))
	}

	identity := identityFromRequest(r)
	if err := h.publisher.Publish(r.Context(), events.ScoresComputed(identity, len(results), time.Now())); err != nil {
		h.logger.Warn("usage event publish failed", logging.Err(err))
	}

	writeJSON(w, http.StatusOK, calculateScoresResponse{Results: results})
}

// GetEventScores handles GET /workspace/events/{id}/scores.  The request
// carries a single score item in the body; its eventId must match the route.
func (h *ScoringHandler) GetEventScores(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "id")

	var item scoring.ScoreItem
	if err := decodeJSONBody(r, &item); err != nil {
		writeError(w, err)
		return
	}
	if item.EventID != routeID {
		writeError(w, errors.NewValidationf("eventId %q does not match route id %q", item.EventID, routeID))
		return
	}

	result, err := h.orchestrator.ScoreOne(r.Context(), item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
