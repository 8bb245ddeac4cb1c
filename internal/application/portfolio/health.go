package portfolio

import (
	"context"

	"github.com/spaarke/workspace-engine/internal/domain/workspace"
)

// GetHealth returns the reduced health projection for identity.  It reads
// through the same cache as GetPortfolio, so the counts it reports are
// always consistent with the full aggregate for the same cache window.
// Timestamp is the projection time, not the aggregate's computation time,
// so a monitor polling this endpoint sees it advance even on cache hits.
func (a *Aggregator) GetHealth(ctx context.Context, identity string) (*workspace.HealthMetrics, error) {
	agg, err := a.GetPortfolio(ctx, identity)
	if err != nil {
		return nil, err
	}

	return &workspace.HealthMetrics{
		BudgetUtilizationPercent: agg.UtilizationPercent,
		PortfolioSpend:           agg.TotalSpend,
		PortfolioBudget:          agg.TotalBudget,
		MattersAtRisk:            agg.MattersAtRisk,
		OverdueEvents:            agg.OverdueEvents,
		ActiveMatters:            agg.ActiveMatters,
		Timestamp:                a.now(),
	}, nil
}
