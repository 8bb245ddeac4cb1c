package workspace

import (
	"math"
	"time"
)

// PortfolioAggregate is the cached portfolio-level financial/risk view for a
// single identity.  CachedAt is set at computation time and survives cache
// hits unchanged.
type PortfolioAggregate struct {
	TotalSpend         float64   `json:"totalSpend"`
	TotalBudget        float64   `json:"totalBudget"`
	UtilizationPercent float64   `json:"utilizationPercent"`
	MattersAtRisk      int       `json:"mattersAtRisk"`
	OverdueEvents      int       `json:"overdueEvents"`
	ActiveMatters      int       `json:"activeMatters"`
	CachedAt           time.Time `json:"cachedAt"`
}

// Utilization computes the portfolio spend/budget percentage rounded to one
// decimal.  A zero budget yields 0, never a division by zero.  The value is
// not clamped: over-budget portfolios report >100 and the briefing narrative
// relies on that.
func Utilization(spend, budget float64) float64 {
	if budget == 0 {
		return 0
	}
	return math.Round(spend/budget*1000) / 10
}

// HealthMetrics is the reduced projection of PortfolioAggregate served by
// the lightweight health endpoint.  Count fields must be byte-for-byte
// identical with the full aggregate for the same identity and cache state.
type HealthMetrics struct {
	BudgetUtilizationPercent float64   `json:"budgetUtilizationPercent"`
	PortfolioSpend           float64   `json:"portfolioSpend"`
	PortfolioBudget          float64   `json:"portfolioBudget"`
	MattersAtRisk            int       `json:"mattersAtRisk"`
	OverdueEvents            int       `json:"overdueEvents"`
	ActiveMatters            int       `json:"activeMatters"`
	Timestamp                time.Time `json:"timestamp"`
}

// BriefingResult is the daily narrative briefing: the portfolio aggregate
// plus a narrative that is AI-enhanced when the assistant is available and
// template-generated otherwise.  Narrative is never empty.
type BriefingResult struct {
	PortfolioAggregate
	Narrative    string    `json:"narrative"`
	IsAiEnhanced bool      `json:"isAiEnhanced"`
	GeneratedAt  time.Time `json:"generatedAt"`
}
