package scoring

// Fixed scoring tables.  These are business constants, not tunables: they
// are loaded once at startup as immutable data and must never vary by input
// order or batch size.  Changing any value here changes published scores and
// requires coordination with the client teams.

// Priority factor identifiers, in evaluation order.
const (
	factorOverdue        = "overdue"
	factorBudgetPressure = "budget_pressure"
	factorGrades         = "grades_below_c"
	factorDeadline       = "deadline_proximity"
	factorValueTier      = "high_value_matter"
	factorInvoices       = "invoice_backlog"
)

// Priority weight thresholds.
const (
	overdueSevereDays   = 15 // ≥15 days past due
	overdueElevatedDays = 8  // 8–14 days

	budgetSeverePercent   = 90 // ≥90% utilization
	budgetElevatedPercent = 75 // 75–89%

	gradesSevereCount = 3 // ≥3 grades below C

	deadlineImminentDays = 3 // due within 3 days
	deadlineNearDays     = 7 // due within 7 days

	invoiceBacklogCount = 5 // ≥5 pending invoices
)

// Priority weights.
const (
	weightOverdueSevere    = 30
	weightOverdueElevated  = 20
	weightOverdueMinor     = 10
	weightBudgetSevere     = 25
	weightBudgetElevated   = 15
	weightGradesSevere     = 20
	weightGradesMinor      = 10
	weightDeadlineImminent = 20
	weightDeadlineNear     = 10
	weightTierHigh         = 15
	weightTierMedium       = 5
	weightInvoiceBacklog   = 15
	weightInvoicePending   = 5
)

// Priority score bands.
const (
	bandCritical = 80
	bandHigh     = 55
	bandMedium   = 30
)

// baseEffortByEventType is the fixed base-effort vocabulary.  An eventType
// absent from this table is a validation error, never a silent default.
var baseEffortByEventType = map[string]int{
	"Invoice":    3,
	"Review":     3,
	"Motion":     5,
	"Closing":    5,
	"Filing":     8,
	"Discovery":  8,
	"Deposition": 8,
	"Hearing":    13,
	"Trial":      21,
}

// effortMultiplier pairs a situational flag label with its factor.
type effortMultiplier struct {
	label  string
	factor float64
}

// effortMultipliers lists the situational adjustments in the fixed order
// they are reported.  Combination is multiplicative, so the order never
// affects the numeric result, only the multipliers list.
var effortMultipliers = []effortMultiplier{
	{"multi_party", 1.3},
	{"cross_jurisdiction", 1.4},
	{"regulatory", 1.5},
	{"high_value", 1.2},
	{"time_sensitive", 1.25},
}

// Effort score bands.
const (
	bandIntensive   = 24
	bandSubstantial = 12
	bandModerate    = 6
)

// KnownEventTypes returns the fixed effort vocabulary; used by validation
// error messages and the CLI.
func KnownEventTypes() []string {
	out := make([]string, 0, len(baseEffortByEventType))
	for k := range baseEffortByEventType {
		out = append(out, k)
	}
	return out
}
