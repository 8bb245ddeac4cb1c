package assistant

import (
	"fmt"

	"github.com/spaarke/workspace-engine/internal/application/assist"
	"github.com/spaarke/workspace-engine/internal/domain/workspace"
)

const narrativeSystemPrompt = `You are a legal operations assistant. Write a short daily briefing ` +
	`for a portfolio manager. Two to four sentences, plain prose, no formatting. ` +
	`Always mention the number of active matters and the budget situation.`

func narrativeUserPrompt(agg *workspace.PortfolioAggregate) string {
	return fmt.Sprintf(
		"Portfolio state: %d active matters, total spend %.2f of budget %.2f (%.1f%% utilized), "+
			"%d matters at risk, %d overdue events.",
		agg.ActiveMatters, agg.TotalSpend, agg.TotalBudget, agg.UtilizationPercent,
		agg.MattersAtRisk, agg.OverdueEvents)
}

const summarySystemPrompt = `You are a legal operations assistant. Analyze the referenced record and reply ` +
	`with a single JSON object, no markdown, with exactly these fields: ` +
	`"analysis" (string), "suggestedActions" (array of short strings), "confidence" (number between 0 and 1).`

func summaryUserPrompt(req assist.SummaryRequest) string {
	prompt := fmt.Sprintf("Record type: %s. Record id: %s.", req.EntityType, req.EntityID)
	if req.Context != "" {
		prompt += " Additional context: " + req.Context
	}
	return prompt
}
