package scoring

import (
	"fmt"

	"github.com/spaarke/workspace-engine/internal/domain/workspace"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// PriorityScorer computes the multi-factor business-risk score for a work
// item.  Score is a pure, total function over validated input: every factor
// contributes a fixed table weight, O(1) per item.
type PriorityScorer struct{}

// NewPriorityScorer returns the scorer.  It carries no state; the tables it
// reads are package-level immutables.
func NewPriorityScorer() *PriorityScorer { return &PriorityScorer{} }

// ValidatePriorityInput rejects malformed input before it reaches the
// scorer.  Messages name the offending field for client-side highlighting.
func ValidatePriorityInput(in PriorityInput) error {
	if in.OverdueDays < 0 {
		return errors.NewValidation("overdueDays must not be negative")
	}
	if in.BudgetUtilizationPercent < 0 || in.BudgetUtilizationPercent > 100 {
		return errors.NewValidation("budgetUtilizationPercent must be between 0 and 100")
	}
	if in.GradesBelowC < 0 {
		return errors.NewValidation("gradesBelowC must not be negative")
	}
	if in.DaysToDeadline != nil && *in.DaysToDeadline < 0 {
		return errors.NewValidation("daysToDeadline must not be negative")
	}
	if _, ok := workspace.ParseValueTier(in.MatterValueTier); !ok {
		return errors.NewValidationf("matterValueTier %q is not one of Low, Medium, High", in.MatterValueTier)
	}
	if in.PendingInvoiceCount < 0 {
		return errors.NewValidation("pendingInvoiceCount must not be negative")
	}
	return nil
}

// contribution is one factor's evaluated weight.
type contribution struct {
	factor string
	weight int
	reason string
}

// Score computes the priority score, band, contributing factors and reason
// text.  Factors are listed in evaluation order and only when they
// contributed a non-zero weight.
func (s *PriorityScorer) Score(in PriorityInput) (int, PriorityLevel, []string, string) {
	contribs := evaluatePriority(in)

	total := 0
	factors := make([]string, 0, len(contribs))
	for _, c := range contribs {
		total += c.weight
		factors = append(factors, c.factor)
	}

	return total, priorityBand(total), factors, priorityReason(contribs)
}

func evaluatePriority(in PriorityInput) []contribution {
	var out []contribution

	switch {
	case in.OverdueDays >= overdueSevereDays:
		out = append(out, contribution{factorOverdue, weightOverdueSevere,
			fmt.Sprintf("%d days past due", in.OverdueDays)})
	case in.OverdueDays >= overdueElevatedDays:
		out = append(out, contribution{factorOverdue, weightOverdueElevated,
			fmt.Sprintf("%d days past due", in.OverdueDays)})
	case in.OverdueDays >= 1:
		out = append(out, contribution{factorOverdue, weightOverdueMinor,
			fmt.Sprintf("%d days past due", in.OverdueDays)})
	}

	switch {
	case in.BudgetUtilizationPercent >= budgetSeverePercent:
		out = append(out, contribution{factorBudgetPressure, weightBudgetSevere,
			fmt.Sprintf("budget %d%% consumed", in.BudgetUtilizationPercent)})
	case in.BudgetUtilizationPercent >= budgetElevatedPercent:
		out = append(out, contribution{factorBudgetPressure, weightBudgetElevated,
			fmt.Sprintf("budget %d%% consumed", in.BudgetUtilizationPercent)})
	}

	switch {
	case in.GradesBelowC >= gradesSevereCount:
		out = append(out, contribution{factorGrades, weightGradesSevere,
			fmt.Sprintf("%d grades below C", in.GradesBelowC)})
	case in.GradesBelowC >= 1:
		out = append(out, contribution{factorGrades, weightGradesMinor,
			fmt.Sprintf("%d grades below C", in.GradesBelowC)})
	}

	if in.DaysToDeadline != nil {
		switch d := *in.DaysToDeadline; {
		case d <= deadlineImminentDays:
			out = append(out, contribution{factorDeadline, weightDeadlineImminent,
				fmt.Sprintf("deadline in %d days", d)})
		case d <= deadlineNearDays:
			out = append(out, contribution{factorDeadline, weightDeadlineNear,
				fmt.Sprintf("deadline in %d days", d)})
		}
	}

	switch in.tier() {
	case workspace.TierHigh:
		out = append(out, contribution{factorValueTier, weightTierHigh, "high-value matter"})
	case workspace.TierMedium:
		out = append(out, contribution{factorValueTier, weightTierMedium, "medium-value matter"})
	}

	switch {
	case in.PendingInvoiceCount >= invoiceBacklogCount:
		out = append(out, contribution{factorInvoices, weightInvoiceBacklog,
			fmt.Sprintf("%d pending invoices", in.PendingInvoiceCount)})
	case in.PendingInvoiceCount >= 1:
		out = append(out, contribution{factorInvoices, weightInvoicePending,
			fmt.Sprintf("%d pending invoices", in.PendingInvoiceCount)})
	}

	return out
}

func priorityBand(score int) PriorityLevel {
	switch {
	case score >= bandCritical:
		return PriorityCritical
	case score >= bandHigh:
		return PriorityHigh
	case score >= bandMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// priorityReason builds the templated summary sentence.  The dominant factor
// is the highest-weight contribution; evaluation order breaks ties, so the
// sentence is deterministic.
func priorityReason(contribs []contribution) string {
	if len(contribs) == 0 {
		return "No elevated risk signals; routine priority."
	}
	dominant := contribs[0]
	for _, c := range contribs[1:] {
		if c.weight > dominant.weight {
			dominant = c
		}
	}
	if len(contribs) == 1 {
		return fmt.Sprintf("Priority driven by %s.", dominant.reason)
	}
	return fmt.Sprintf("Priority driven primarily by %s (%d contributing factors).",
		dominant.reason, len(contribs))
}
