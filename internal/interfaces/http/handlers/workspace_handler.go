package handlers

import (
	"net/http"

	"github.com/spaarke/workspace-engine/internal/application/portfolio"
)

// WorkspaceHandler serves the portfolio, health and briefing endpoints.
type WorkspaceHandler struct {
	aggregator *portfolio.Aggregator
	briefing   *portfolio.BriefingService
}

// NewWorkspaceHandler creates the handler.
func NewWorkspaceHandler(aggregator *portfolio.Aggregator, briefing *portfolio.BriefingService) *WorkspaceHandler {
	return &WorkspaceHandler{aggregator: aggregator, briefing: briefing}
}

// GetPortfolio handles GET /workspace/portfolio.
func (h *WorkspaceHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	agg, err := h.aggregator.GetPortfolio(r.Context(), identityFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// GetHealth handles GET /workspace/health.
func (h *WorkspaceHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	health, err := h.aggregator.GetHealth(r.Context(), identityFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, health)
}

// GetBriefing handles GET /workspace/briefing.
func (h *WorkspaceHandler) GetBriefing(w http.ResponseWriter, r *http.Request) {
	briefing, err := h.briefing.Generate(r.Context(), identityFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, briefing)
}
