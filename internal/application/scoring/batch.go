package scoring

import (
	"context"
	"sync"

	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// MaxBatchSize is the hard business ceiling on items per scoring request.
// Exceeding it always fails fast before any scoring work begins.
const MaxBatchSize = 50

// batchWorkers bounds the fan-out concurrency per request.
const batchWorkers = 8

// Orchestrator validates a batch of score requests and fans them out to the
// two scorers.  Items are processed independently; output order is not
// guaranteed to match input order, but every output traces to exactly one
// input via EventID.
type Orchestrator struct {
	priority *PriorityScorer
	effort   *EffortScorer
	logger   logging.Logger
}

// NewOrchestrator creates a batch scoring orchestrator.
func NewOrchestrator(priority *PriorityScorer, effort *EffortScorer, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		priority: priority,
		effort:   effort,
		logger:   logger.Named("scoring"),
	}
}

// ScoreBatch scores up to MaxBatchSize items.  The whole batch is validated
// before any scoring runs; a single malformed item rejects the request so
// the caller never receives a partial result set.
func (o *Orchestrator) ScoreBatch(ctx context.Context, items []ScoreItem) ([]ScoreResult, error) {
	if len(items) == 0 {
		return nil, errors.NewValidation("items must contain at least one entry")
	}
	if len(items) > MaxBatchSize {
		return nil, errors.NewValidationf("items exceeds the maximum batch size of %d", MaxBatchSize).
			WithDetailf("received %d items", len(items))
	}

	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item.EventID == "" {
			return nil, errors.NewValidationf("items[%d]: eventId is required", i)
		}
		if _, dup := seen[item.EventID]; dup {
			return nil, errors.NewValidationf("items[%d]: duplicate eventId %q", i, item.EventID)
		}
		seen[item.EventID] = struct{}{}
		if err := ValidatePriorityInput(item.Priority); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "items["+item.EventID+"]")
		}
		if err := ValidateEffortInput(item.Effort); err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "items["+item.EventID+"]")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "batch cancelled before scoring")
	}

	results := make([]ScoreResult, len(items))
	work := make(chan int)
	var wg sync.WaitGroup

	workers := batchWorkers
	if len(items) < workers {
		workers = len(items)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = o.scoreOne(items[idx])
			}
		}()
	}
	for i := range items {
		work <- i
	}
	close(work)
	wg.Wait()

	o.logger.Debug("batch scored", logging.Int("items", len(items)))
	return results, nil
}

// ScoreOne scores a single validated item.  Used by the per-event endpoint
// and the CLI; shares the exact code path with batch scoring so a single
// item can never diverge from its batch result.
func (o *Orchestrator) ScoreOne(ctx context.Context, item ScoreItem) (*ScoreResult, error) {
	if item.EventID == "" {
		return nil, errors.NewValidation("eventId is required")
	}
	if err := ValidatePriorityInput(item.Priority); err != nil {
		return nil, err
	}
	if err := ValidateEffortInput(item.Effort); err != nil {
		return nil, err
	}
	r := o.scoreOne(item)
	return &r, nil
}

func (o *Orchestrator) scoreOne(item ScoreItem) ScoreResult {
	pScore, pLevel, pFactors, pReason := o.priority.Score(item.Priority)
	eScore, eLevel, base, multipliers, eReason := o.effort.Score(item.Effort)

	return ScoreResult{
		EventID:           item.EventID,
		PriorityScore:     pScore,
		PriorityLevel:     pLevel,
		PriorityFactors:   pFactors,
		PriorityReason:    pReason,
		EffortScore:       eScore,
		EffortLevel:       eLevel,
		BaseEffort:        base,
		EffortMultipliers: multipliers,
		EffortReason:      eReason,
	}
}
