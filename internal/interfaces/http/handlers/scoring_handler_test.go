package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaarke/workspace-engine/internal/application/events"
	"github.com/spaarke/workspace-engine/internal/application/scoring"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

type capturePublisher struct {
	published []events.UsageEvent
	err       error
}

func (p *capturePublisher) Publish(_ context.Context, event events.UsageEvent) error {
	p.published = append(p.published, event)
	return p.err
}

func newScoringHandler(publisher events.Publisher) *ScoringHandler {
	orchestrator := scoring.NewOrchestrator(
		scoring.NewPriorityScorer(),
		scoring.NewEffortScorer(),
		logging.NewNopLogger(),
	)
	return NewScoringHandler(orchestrator, publisher, logging.NewNopLogger())
}

func scoreItem(id string) scoring.ScoreItem {
	return scoring.ScoreItem{
		EventID: id,
		Priority: scoring.PriorityInput{
			OverdueDays:     3,
			MatterValueTier: "Medium",
		},
		Effort: scoring.EffortInput{EventType: "Filing"},
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCalculateScores_ReturnsResultInOrder(t *testing.T) {
	publisher := &capturePublisher{}
	h := newScoringHandler(publisher)

	rec := postJSON(t, h.CalculateScores, "/workspace/calculate-scores", map[string]interface{}{
		"items": []scoring.ScoreItem{scoreItem("evt-001"), scoreItem("evt-002")},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results []scoring.ScoreResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "evt-001", resp.Results[0].EventID)
	assert.Equal(t, "evt-002", resp.Results[1].EventID)
}

func TestCalculateScores_PublishesUsageEvent(t *testing.T) {
	publisher := &capturePublisher{}
	h := newScoringHandler(publisher)

	rec := postJSON(t, h.CalculateScores, "/workspace/calculate-scores", map[string]interface{}{
		"items": []scoring.ScoreItem{scoreItem("evt-001")},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.TypeScoresComputed, publisher.published[0].Type)
	assert.Equal(t, "1", publisher.published[0].Attributes["items"])
}

func TestCalculateScores_PublishFailureDoesNotFailRequest(t *testing.T) {
	publisher := &capturePublisher{err: fmt.Errorf("broker down")}
	h := newScoringHandler(publisher)

	rec := postJSON(t, h.CalculateScores, "/workspace/calculate-scores", map[string]interface{}{
		"items": []scoring.ScoreItem{scoreItem("evt-001")},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCalculateScores_BatchCeiling(t *testing.T) {
	h := newScoringHandler(nil)

	items := make([]scoring.ScoreItem, 51)
	for i := range items {
		items[i] = scoreItem(fmt.Sprintf("evt-%03d", i))
	}

	rec := postJSON(t, h.CalculateScores, "/workspace/calculate-scores", map[string]interface{}{
		"items": items,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errors.ProblemContentType, rec.Header().Get("Content-Type"))

	var problem errors.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Contains(t, problem.Detail, "50")
	assert.Contains(t, problem.Detail, "51")
}

func TestCalculateScores_MalformedBody(t *testing.T) {
	h := newScoringHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/workspace/calculate-scores", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.CalculateScores(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem errors.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Contains(t, problem.Detail, "JSON")
}

func newScoringRouter(h *ScoringHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/workspace/events/{id}/scores", h.GetEventScores)
	return r
}

func TestGetEventScores_MatchingID(t *testing.T) {
	h := newScoringHandler(nil)
	router := newScoringRouter(h)

	raw, err := json.Marshal(scoreItem("evt-042"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/workspace/events/evt-042/scores", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result scoring.ScoreResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "evt-042", result.EventID)
}

func TestGetEventScores_IDMismatch(t *testing.T) {
	h := newScoringHandler(nil)
	router := newScoringRouter(h)

	raw, err := json.Marshal(scoreItem("evt-999"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/workspace/events/evt-042/scores", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var problem errors.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Contains(t, problem.Detail, "evt-999")
	assert.Contains(t, problem.Detail, "evt-042")
}
