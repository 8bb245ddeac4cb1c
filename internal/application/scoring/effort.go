package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spaarke/workspace-engine/pkg/errors"
)

// EffortScorer computes the work-required estimate for an item: a fixed base
// effort per event type, compounded multiplicatively by the situational
// flags that are set.  Pure and total over validated input.
type EffortScorer struct{}

// NewEffortScorer returns the scorer.
func NewEffortScorer() *EffortScorer { return &EffortScorer{} }

// ValidateEffortInput rejects input whose eventType is outside the fixed
// vocabulary.  Unknown types never silently default.
func ValidateEffortInput(in EffortInput) error {
	if strings.TrimSpace(in.EventType) == "" {
		return errors.NewValidation("eventType is required")
	}
	if _, ok := baseEffortByEventType[in.EventType]; !ok {
		known := KnownEventTypes()
		sort.Strings(known)
		return errors.NewValidationf("eventType %q is not recognized", in.EventType).
			WithDetail("known types: " + strings.Join(known, ", "))
	}
	return nil
}

// Score computes the effort score, band, base effort, applied multiplier
// labels and reason text.  Multipliers compound multiplicatively in the
// fixed table order and the final value is rounded half-up exactly once, so
// repeated calls never drift.
func (s *EffortScorer) Score(in EffortInput) (int, EffortLevel, int, []string, string) {
	base := baseEffortByEventType[in.EventType]

	flags := []bool{
		in.HasMultipleParties,
		in.IsCrossJurisdiction,
		in.IsRegulatory,
		in.IsHighValue,
		in.IsTimeSensitive,
	}

	product := 1.0
	applied := make([]string, 0, len(effortMultipliers))
	for i, m := range effortMultipliers {
		if flags[i] {
			product *= m.factor
			applied = append(applied, m.label)
		}
	}

	score := roundHalfUp(float64(base) * product)
	return score, effortBand(score), base, applied, effortReason(in.EventType, base, applied, score)
}

// roundHalfUp is the single rounding rule for effort scores: .5 always
// rounds away from zero toward the next integer.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func effortBand(score int) EffortLevel {
	switch {
	case score >= bandIntensive:
		return EffortIntensive
	case score >= bandSubstantial:
		return EffortSubstantial
	case score >= bandModerate:
		return EffortModerate
	default:
		return EffortLight
	}
}

func effortReason(eventType string, base int, applied []string, score int) string {
	if len(applied) == 0 {
		return fmt.Sprintf("%s carries a base effort of %d with no situational adjustments.", eventType, base)
	}
	return fmt.Sprintf("%s base effort %d scaled to %d by %s.",
		eventType, base, score, strings.Join(applied, ", "))
}
