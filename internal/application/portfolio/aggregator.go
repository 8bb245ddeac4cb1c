// Package portfolio implements portfolio aggregation, the health projection
// and the daily briefing over the matter/event/invoice record store.  All
// reads for one identity flow through the identity-keyed cache so repeated
// calls within the TTL observe one consistent aggregate.
package portfolio

import (
	"context"
	"time"

	"github.com/spaarke/workspace-engine/internal/domain/workspace"
	"github.com/spaarke/workspace-engine/internal/infrastructure/database/redis"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// cacheKeyPrefix namespaces portfolio aggregates within the shared cache.
const cacheKeyPrefix = "portfolio:"

// CacheMetrics receives cache hit/miss observations.
type CacheMetrics interface {
	CacheHit()
	CacheMiss()
}

// Aggregator computes and caches per-identity portfolio aggregates.
type Aggregator struct {
	source  workspace.DataSource
	cache   redis.Cache
	ttl     time.Duration
	logger  logging.Logger
	metrics CacheMetrics
	now     func() time.Time
}

// NewAggregator creates the aggregation service.  ttl bounds how stale a
// cached aggregate may be served.
func NewAggregator(source workspace.DataSource, cache redis.Cache, ttl time.Duration, logger logging.Logger) *Aggregator {
	return &Aggregator{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("portfolio"),
		now:    time.Now,
	}
}

// WithMetrics attaches a cache hit/miss recorder and returns the aggregator.
func (a *Aggregator) WithMetrics(m CacheMetrics) *Aggregator {
	a.metrics = m
	return a
}

func cacheKey(identity string) string {
	return cacheKeyPrefix + identity
}

// GetPortfolio returns the portfolio aggregate for identity, computing it
// from a fresh snapshot on cache miss.  CachedAt reflects computation time,
// so a caller can tell a cached read from a fresh one.
func (a *Aggregator) GetPortfolio(ctx context.Context, identity string) (*workspace.PortfolioAggregate, error) {
	if identity == "" {
		return nil, errors.NewValidation("identity is required")
	}

	var agg workspace.PortfolioAggregate
	computedFresh := false
	err := a.cache.GetOrSet(ctx, cacheKey(identity), &agg, a.ttl, func(ctx context.Context) (interface{}, error) {
		computedFresh = true
		computed, err := a.compute(ctx, identity)
		if err != nil {
			return nil, err
		}
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	if a.metrics != nil {
		if computedFresh {
			a.metrics.CacheMiss()
		} else {
			a.metrics.CacheHit()
		}
	}
	return &agg, nil
}

// Invalidate drops the cached aggregate for identity.  The next read
// recomputes from the record store.
func (a *Aggregator) Invalidate(ctx context.Context, identity string) error {
	if identity == "" {
		return errors.NewValidation("identity is required")
	}
	return a.cache.Delete(ctx, cacheKey(identity))
}

// compute reduces a full snapshot to the aggregate.  Only active matters
// count toward totals; events and invoices of inactive matters are ignored
// entirely.
func (a *Aggregator) compute(ctx context.Context, identity string) (*workspace.PortfolioAggregate, error) {
	snapshot, err := a.source.Snapshot(ctx, identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDataSource, "portfolio snapshot failed")
	}

	now := a.now()

	active := make(map[string]*workspace.Matter, len(snapshot.Matters))
	agg := &workspace.PortfolioAggregate{CachedAt: now}

	for i := range snapshot.Matters {
		m := &snapshot.Matters[i]
		if !m.IsActive() {
			continue
		}
		active[m.ID.String()] = m
		agg.ActiveMatters++
		agg.TotalSpend += m.Spend
		agg.TotalBudget += m.Budget
	}

	overdueByMatter := make(map[string]int)
	for i := range snapshot.Events {
		e := &snapshot.Events[i]
		if _, ok := active[e.MatterID.String()]; !ok {
			continue
		}
		if e.Overdue(now) {
			overdueByMatter[e.MatterID.String()]++
			agg.OverdueEvents++
		}
	}

	pendingByMatter := make(map[string]int)
	for i := range snapshot.Invoices {
		inv := &snapshot.Invoices[i]
		if !inv.Pending {
			continue
		}
		if _, ok := active[inv.MatterID.String()]; !ok {
			continue
		}
		pendingByMatter[inv.MatterID.String()]++
	}

	for id, m := range active {
		if m.AtRisk(overdueByMatter[id], pendingByMatter[id]) {
			agg.MattersAtRisk++
		}
	}

	agg.UtilizationPercent = workspace.Utilization(agg.TotalSpend, agg.TotalBudget)

	a.logger.Debug("portfolio computed",
		logging.String("identity", identity),
		logging.Int("active_matters", agg.ActiveMatters),
		logging.Int("matters_at_risk", agg.MattersAtRisk),
	)
	return agg, nil
}
