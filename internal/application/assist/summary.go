// Package assist implements the AI entity summary service and the matter
// pre-fill ingestion pipeline.
package assist

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// maxContextChars bounds the free-text context accepted by Summarize.
const maxContextChars = 2000

// entityTypePrefix is the record-system prefix clients commonly send;
// it is stripped before the allow-list check so "sprk_event" and "event"
// are the same type.
const entityTypePrefix = "sprk_"

// allowedEntityTypes is the fixed vocabulary Summarize accepts.
var allowedEntityTypes = map[string]struct{}{
	"event":    {},
	"matter":   {},
	"project":  {},
	"document": {},
}

// SummaryRequest is a validated summarization request.
type SummaryRequest struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Context    string `json:"context,omitempty"`
}

// SummaryResult is the AI analysis of one entity.
type SummaryResult struct {
	Analysis         string    `json:"analysis"`
	SuggestedActions []string  `json:"suggestedActions"`
	Confidence       float64   `json:"confidence"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// SummaryProvider is the AI port for entity summaries.  Unlike the briefing
// narrative there is no template fallback here: summary is meaningless
// without the model, so an unavailable provider fails the call.
type SummaryProvider interface {
	Available() bool
	Summarize(ctx context.Context, req SummaryRequest) (*SummaryResult, error)
}

// SummaryService validates summary requests and delegates to the provider.
type SummaryService struct {
	provider SummaryProvider
	logger   logging.Logger
	now      func() time.Time
}

// NewSummaryService creates the summary service.  provider may be nil; every
// call then fails with UpstreamUnavailable.
func NewSummaryService(provider SummaryProvider, logger logging.Logger) *SummaryService {
	return &SummaryService{
		provider: provider,
		logger:   logger.Named("summary"),
		now:      time.Now,
	}
}

// Summarize validates the request and returns the provider's analysis.  The
// call fails closed when the provider is not configured or errors; there is
// no degraded heuristic result.
func (s *SummaryService) Summarize(ctx context.Context, req SummaryRequest) (*SummaryResult, error) {
	if err := validateSummaryRequest(req); err != nil {
		return nil, err
	}
	if s.provider == nil || !s.provider.Available() {
		return nil, errors.Upstream("summary provider is not available")
	}

	result, err := s.provider.Summarize(ctx, req)
	if err != nil {
		s.logger.Warn("summary provider failed",
			logging.String("entity_type", req.EntityType), logging.Err(err))
		return nil, errors.Wrap(err, errors.CodeUpstreamUnavailable, "summary generation failed")
	}

	return s.normalize(result), nil
}

// normalize enforces the result invariants regardless of what the model
// returned: a non-empty action list and confidence within [0, 1].
func (s *SummaryService) normalize(r *SummaryResult) *SummaryResult {
	if len(r.SuggestedActions) == 0 {
		r.SuggestedActions = []string{"Review the full record for details."}
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = s.now()
	}
	return r
}

func validateSummaryRequest(req SummaryRequest) error {
	if strings.TrimSpace(req.EntityType) == "" {
		return errors.NewValidation("entityType is required")
	}
	normalized := strings.TrimPrefix(strings.ToLower(req.EntityType), entityTypePrefix)
	if _, ok := allowedEntityTypes[normalized]; !ok {
		return errors.NewValidationf("entityType %q is not supported", req.EntityType).
			WithDetail("supported types: event, matter, project, document")
	}

	id, err := uuid.Parse(req.EntityID)
	if err != nil || id == uuid.Nil {
		return errors.NewValidation("entityId must be a non-empty identifier")
	}

	if len(req.Context) > maxContextChars {
		return errors.NewValidationf("context exceeds the maximum length of %d characters", maxContextChars).
			WithDetailf("received %d characters", len(req.Context))
	}
	return nil
}
