// Package scoring implements the deterministic priority and effort scorers
// and the batch orchestrator that fans requests out to them.  Scoring is
// pure table-driven arithmetic: identical input always produces identical
// output, independent of batch size or item order.
package scoring

import "github.com/spaarke/workspace-engine/internal/domain/workspace"

// PriorityInput carries the business-risk signals for one work item.
type PriorityInput struct {
	OverdueDays              int    `json:"overdueDays"`
	BudgetUtilizationPercent int    `json:"budgetUtilizationPercent"`
	GradesBelowC             int    `json:"gradesBelowC"`
	DaysToDeadline           *int   `json:"daysToDeadline"` // nil = no deadline
	MatterValueTier          string `json:"matterValueTier"`
	PendingInvoiceCount      int    `json:"pendingInvoiceCount"`
}

// EffortInput carries the event type and situational flags for one work item.
type EffortInput struct {
	EventType           string `json:"eventType"`
	HasMultipleParties  bool   `json:"hasMultipleParties"`
	IsCrossJurisdiction bool   `json:"isCrossJurisdiction"`
	IsRegulatory        bool   `json:"isRegulatory"`
	IsHighValue         bool   `json:"isHighValue"`
	IsTimeSensitive     bool   `json:"isTimeSensitive"`
}

// ScoreItem is one entry in a batch scoring request.
type ScoreItem struct {
	EventID  string        `json:"eventId"`
	Priority PriorityInput `json:"priority"`
	Effort   EffortInput   `json:"effort"`
}

// PriorityLevel is the banded classification of a priority score.
type PriorityLevel string

const (
	PriorityLow      PriorityLevel = "Low"
	PriorityMedium   PriorityLevel = "Medium"
	PriorityHigh     PriorityLevel = "High"
	PriorityCritical PriorityLevel = "Critical"
)

// EffortLevel is the banded classification of an effort score.
type EffortLevel string

const (
	EffortLight       EffortLevel = "Light"
	EffortModerate    EffortLevel = "Moderate"
	EffortSubstantial EffortLevel = "Substantial"
	EffortIntensive   EffortLevel = "Intensive"
)

// ScoreResult is the combined scoring output for one work item.  EventID
// echoes the request identity unchanged.
type ScoreResult struct {
	EventID string `json:"eventId"`

	PriorityScore   int           `json:"priorityScore"`
	PriorityLevel   PriorityLevel `json:"priorityLevel"`
	PriorityFactors []string      `json:"priorityFactors"`
	PriorityReason  string        `json:"priorityReason"`

	EffortScore       int         `json:"effortScore"`
	EffortLevel       EffortLevel `json:"effortLevel"`
	BaseEffort        int         `json:"baseEffort"`
	EffortMultipliers []string    `json:"effortMultipliers"`
	EffortReason      string      `json:"effortReason"`
}

// tier is a convenience accessor that re-validates lazily; inputs reaching
// the scorer have already passed ValidatePriorityInput.
func (in PriorityInput) tier() workspace.ValueTier {
	t, _ := workspace.ParseValueTier(in.MatterValueTier)
	return t
}
