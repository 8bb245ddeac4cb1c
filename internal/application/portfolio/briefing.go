package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/spaarke/workspace-engine/internal/application/events"
	"github.com/spaarke/workspace-engine/internal/domain/workspace"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
)

// NarrativeProvider is the optional AI port for briefing narratives.
// Available reports whether the provider is configured; Narrative may still
// fail at call time and the briefing must degrade to the template either way.
type NarrativeProvider interface {
	Available() bool
	Narrative(ctx context.Context, agg *workspace.PortfolioAggregate) (string, error)
}

// BriefingService produces the daily portfolio briefing.
type BriefingService struct {
	aggregator *Aggregator
	provider   NarrativeProvider
	publisher  events.Publisher
	logger     logging.Logger
	now        func() time.Time
}

// NewBriefingService creates the briefing service.  provider and publisher
// may be nil; the service then always uses the template narrative and skips
// telemetry.
func NewBriefingService(aggregator *Aggregator, provider NarrativeProvider, publisher events.Publisher, logger logging.Logger) *BriefingService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &BriefingService{
		aggregator: aggregator,
		provider:   provider,
		publisher:  publisher,
		logger:     logger.Named("briefing"),
		now:        time.Now,
	}
}

// Generate builds the briefing for identity.  An AI narrative is attempted
// only when the provider is configured; any provider failure degrades to the
// template narrative rather than failing the request, and IsAiEnhanced is
// true only when the AI text was actually used.
func (s *BriefingService) Generate(ctx context.Context, identity string) (*workspace.BriefingResult, error) {
	agg, err := s.aggregator.GetPortfolio(ctx, identity)
	if err != nil {
		return nil, err
	}

	result := &workspace.BriefingResult{
		PortfolioAggregate: *agg,
		GeneratedAt:        s.now(),
	}

	if s.provider != nil && s.provider.Available() {
		narrative, aiErr := s.provider.Narrative(ctx, agg)
		if aiErr == nil && narrative != "" {
			result.Narrative = narrative
			result.IsAiEnhanced = true
		} else {
			s.logger.Warn("assistant narrative failed, using template",
				logging.String("identity", identity), logging.Err(aiErr))
		}
	}

	if result.Narrative == "" {
		result.Narrative = templateNarrative(agg)
	}

	if err := s.publisher.Publish(ctx, events.BriefingGenerated(identity, result.IsAiEnhanced, result.GeneratedAt)); err != nil {
		s.logger.Warn("usage event publish failed", logging.Err(err))
	}

	return result, nil
}

// templateNarrative is the deterministic fallback narrative.  It always
// names the active matter count and characterizes budget utilization.
func templateNarrative(agg *workspace.PortfolioAggregate) string {
	matters := "matters"
	if agg.ActiveMatters == 1 {
		matters = "matter"
	}
	narrative := fmt.Sprintf("You have %d active %s with total spend of %.2f against a budget of %.2f. %s",
		agg.ActiveMatters, matters,
		agg.TotalSpend, agg.TotalBudget,
		utilizationStatement(agg.UtilizationPercent))

	if agg.MattersAtRisk > 0 || agg.OverdueEvents > 0 {
		narrative += fmt.Sprintf(" %d %s at risk and %d %s overdue; these need attention first.",
			agg.MattersAtRisk, pluralMattersVerb(agg.MattersAtRisk),
			agg.OverdueEvents, pluralEventsVerb(agg.OverdueEvents))
	} else {
		narrative += " No matters are at risk and nothing is overdue."
	}
	return narrative
}

func utilizationStatement(percent float64) string {
	switch {
	case percent > 100:
		return fmt.Sprintf("The portfolio is over budget at %.1f%% utilization.", percent)
	case percent >= 90:
		return fmt.Sprintf("Budget utilization is critical at %.1f%%.", percent)
	case percent >= 75:
		return fmt.Sprintf("Budget utilization is elevated at %.1f%%.", percent)
	default:
		return fmt.Sprintf("Budget utilization is healthy at %.1f%%.", percent)
	}
}

func pluralMattersVerb(n int) string {
	if n == 1 {
		return "matter is"
	}
	return "matters are"
}

func pluralEventsVerb(n int) string {
	if n == 1 {
		return "event is"
	}
	return "events are"
}
