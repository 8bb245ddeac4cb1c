package handlers

import (
	"context"
	"net/http"
	"time"
)

// readinessTimeout bounds the dependency probes so a wedged backend cannot
// stall the kubelet.
const readinessTimeout = 5 * time.Second

// DependencyCheck probes one backing service.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checks  []DependencyCheck
	startAt time.Time
}

// NewHealthHandler creates the handler with the given dependency probes.
func NewHealthHandler(checks ...DependencyCheck) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		startAt: time.Now(),
	}
}

type livenessResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

type readinessResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// Liveness handles GET /healthz.  Always 200 while the process runs; it
// never touches backing services.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, livenessResponse{
		Status: "ok",
		Uptime: time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz.  503 when any dependency probe fails.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	resp := readinessResponse{Status: "ready"}
	if len(h.checks) > 0 {
		resp.Components = make(map[string]string, len(h.checks))
	}
	status := http.StatusOK
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			resp.Components[c.Name] = err.Error()
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Components[c.Name] = "ok"
	}
	writeJSON(w, status, resp)
}
