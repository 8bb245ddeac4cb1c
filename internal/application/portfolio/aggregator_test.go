package portfolio

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaarke/workspace-engine/internal/domain/workspace"
	"github.com/spaarke/workspace-engine/internal/infrastructure/database/redis"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// fakeSource serves a canned snapshot and counts reads.
type fakeSource struct {
	snapshot *workspace.PortfolioSnapshot
	err      error
	calls    int32
}

func (f *fakeSource) Snapshot(_ context.Context, _ string) (*workspace.PortfolioSnapshot, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func timePtr(t time.Time) *time.Time { return &t }

func testSnapshot(now time.Time) *workspace.PortfolioSnapshot {
	m1 := uuid.New() // active, 95% utilized, one overdue event
	m2 := uuid.New() // active, healthy
	m3 := uuid.New() // closed, must not count
	return &workspace.PortfolioSnapshot{
		Matters: []workspace.Matter{
			{ID: m1, Name: "Acme acquisition", Status: workspace.MatterStatusActive, Budget: 100000, Spend: 95000, ValueTier: workspace.TierHigh},
			{ID: m2, Name: "Lease renewal", Status: workspace.MatterStatusActive, Budget: 50000, Spend: 10000, ValueTier: workspace.TierLow},
			{ID: m3, Name: "Archived dispute", Status: workspace.MatterStatusClosed, Budget: 80000, Spend: 80000, ValueTier: workspace.TierMedium},
		},
		Events: []workspace.WorkEvent{
			{ID: uuid.New(), MatterID: m1, EventType: "Filing", Status: workspace.EventStatusOpen, DueDate: timePtr(now.Add(-48 * time.Hour))},
			{ID: uuid.New(), MatterID: m2, EventType: "Review", Status: workspace.EventStatusOpen, DueDate: timePtr(now.Add(72 * time.Hour))},
			{ID: uuid.New(), MatterID: m2, EventType: "Review", Status: workspace.EventStatusCompleted, DueDate: timePtr(now.Add(-24 * time.Hour))},
			{ID: uuid.New(), MatterID: m3, EventType: "Hearing", Status: workspace.EventStatusOpen, DueDate: timePtr(now.Add(-24 * time.Hour))},
		},
	}
}

func newTestAggregator(source workspace.DataSource) *Aggregator {
	return NewAggregator(source, redis.NewMemoryCache(), 15*time.Minute, logging.NewNopLogger())
}

func TestGetPortfolio_ComputesOverActiveMattersOnly(t *testing.T) {
	now := time.Now()
	source := &fakeSource{snapshot: testSnapshot(now)}
	agg := newTestAggregator(source)

	got, err := agg.GetPortfolio(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 2, got.ActiveMatters)
	assert.Equal(t, float64(105000), got.TotalSpend)
	assert.Equal(t, float64(150000), got.TotalBudget)
	assert.Equal(t, 70.0, got.UtilizationPercent)
	// Only the 95%-utilized matter with the overdue filing is at risk; the
	// closed matter's overdue hearing is excluded.
	assert.Equal(t, 1, got.MattersAtRisk)
	assert.Equal(t, 1, got.OverdueEvents)
	assert.False(t, got.CachedAt.IsZero())
}

func TestGetPortfolio_InvoiceBacklogMarksAtRisk(t *testing.T) {
	backlogged := uuid.New()
	closed := uuid.New()
	invoices := make([]workspace.Invoice, 0, 10)
	for i := 0; i < 5; i++ {
		invoices = append(invoices, workspace.Invoice{ID: uuid.New(), MatterID: backlogged, Amount: 1000, Pending: true})
		invoices = append(invoices, workspace.Invoice{ID: uuid.New(), MatterID: closed, Amount: 1000, Pending: true})
	}
	source := &fakeSource{snapshot: &workspace.PortfolioSnapshot{
		Matters: []workspace.Matter{
			{ID: backlogged, Status: workspace.MatterStatusActive, Budget: 100000, Spend: 10000},
			{ID: closed, Status: workspace.MatterStatusClosed, Budget: 100000, Spend: 10000},
		},
		Invoices: invoices,
	}}
	agg := newTestAggregator(source)

	got, err := agg.GetPortfolio(context.Background(), "user-1")
	require.NoError(t, err)
	// Healthy utilization and no overdue events, yet the pending-invoice
	// backlog alone marks the active matter at risk.  The closed matter's
	// backlog is ignored.
	assert.Equal(t, 1, got.MattersAtRisk)
}

func TestGetPortfolio_PendingInvoicesBelowBacklogNotAtRisk(t *testing.T) {
	matter := uuid.New()
	source := &fakeSource{snapshot: &workspace.PortfolioSnapshot{
		Matters: []workspace.Matter{
			{ID: matter, Status: workspace.MatterStatusActive, Budget: 100000, Spend: 10000},
		},
		Invoices: []workspace.Invoice{
			{ID: uuid.New(), MatterID: matter, Amount: 500, Pending: true},
			{ID: uuid.New(), MatterID: matter, Amount: 500, Pending: false},
		},
	}}
	agg := newTestAggregator(source)

	got, err := agg.GetPortfolio(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.MattersAtRisk)
}

func TestGetPortfolio_ZeroBudget(t *testing.T) {
	source := &fakeSource{snapshot: &workspace.PortfolioSnapshot{
		Matters: []workspace.Matter{
			{ID: uuid.New(), Status: workspace.MatterStatusActive, Budget: 0, Spend: 5000},
		},
	}}
	agg := newTestAggregator(source)

	got, err := agg.GetPortfolio(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.UtilizationPercent)
}

func TestGetPortfolio_OverBudgetNotClamped(t *testing.T) {
	source := &fakeSource{snapshot: &workspace.PortfolioSnapshot{
		Matters: []workspace.Matter{
			{ID: uuid.New(), Status: workspace.MatterStatusActive, Budget: 10000, Spend: 12000},
		},
	}}
	agg := newTestAggregator(source)

	got, err := agg.GetPortfolio(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.UtilizationPercent)
}

func TestGetPortfolio_ServesFromCacheWithinTTL(t *testing.T) {
	source := &fakeSource{snapshot: testSnapshot(time.Now())}
	agg := newTestAggregator(source)
	ctx := context.Background()

	first, err := agg.GetPortfolio(ctx, "user-1")
	require.NoError(t, err)
	second, err := agg.GetPortfolio(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&source.calls), "second read must not touch the record store")
	assert.True(t, first.CachedAt.Equal(second.CachedAt), "cache hits keep the original computation time")
	assert.Equal(t, first.TotalSpend, second.TotalSpend)
}

func TestGetPortfolio_CacheIsIdentityScoped(t *testing.T) {
	source := &fakeSource{snapshot: testSnapshot(time.Now())}
	agg := newTestAggregator(source)
	ctx := context.Background()

	_, err := agg.GetPortfolio(ctx, "user-1")
	require.NoError(t, err)
	_, err = agg.GetPortfolio(ctx, "user-2")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&source.calls), "each identity computes its own aggregate")
}

func TestInvalidate_ForcesRecompute(t *testing.T) {
	source := &fakeSource{snapshot: testSnapshot(time.Now())}
	agg := newTestAggregator(source)
	ctx := context.Background()

	_, err := agg.GetPortfolio(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, agg.Invalidate(ctx, "user-1"))
	_, err = agg.GetPortfolio(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&source.calls))
}

func TestGetPortfolio_EmptyIdentityRejected(t *testing.T) {
	agg := newTestAggregator(&fakeSource{})

	_, err := agg.GetPortfolio(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestGetPortfolio_SourceErrorNotCached(t *testing.T) {
	source := &fakeSource{err: errors.New(errors.CodeDataSource, "connection refused")}
	agg := newTestAggregator(source)
	ctx := context.Background()

	_, err := agg.GetPortfolio(ctx, "user-1")
	require.Error(t, err)
	assert.Equal(t, errors.CodeDataSource, errors.GetCode(err))

	source.err = nil
	source.snapshot = testSnapshot(time.Now())
	_, err = agg.GetPortfolio(ctx, "user-1")
	require.NoError(t, err, "a failed computation must not poison the cache")
}

func TestGetHealth_ConsistentWithAggregate(t *testing.T) {
	source := &fakeSource{snapshot: testSnapshot(time.Now())}
	agg := newTestAggregator(source)
	ctx := context.Background()

	full, err := agg.GetPortfolio(ctx, "user-1")
	require.NoError(t, err)

	projectedAt := full.CachedAt.Add(5 * time.Minute)
	agg.now = func() time.Time { return projectedAt }

	health, err := agg.GetHealth(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, full.UtilizationPercent, health.BudgetUtilizationPercent)
	assert.Equal(t, full.TotalSpend, health.PortfolioSpend)
	assert.Equal(t, full.TotalBudget, health.PortfolioBudget)
	assert.Equal(t, full.MattersAtRisk, health.MattersAtRisk)
	assert.Equal(t, full.OverdueEvents, health.OverdueEvents)
	assert.Equal(t, full.ActiveMatters, health.ActiveMatters)
	assert.Equal(t, int32(1), atomic.LoadInt32(&source.calls), "health reads through the same cache entry")
}

func TestGetHealth_TimestampIsProjectionTime(t *testing.T) {
	source := &fakeSource{snapshot: testSnapshot(time.Now())}
	agg := newTestAggregator(source)
	ctx := context.Background()

	full, err := agg.GetPortfolio(ctx, "user-1")
	require.NoError(t, err)

	projectedAt := full.CachedAt.Add(10 * time.Minute)
	agg.now = func() time.Time { return projectedAt }

	health, err := agg.GetHealth(ctx, "user-1")
	require.NoError(t, err)

	assert.True(t, health.Timestamp.Equal(projectedAt), "timestamp tracks projection time")
	assert.False(t, health.Timestamp.Equal(full.CachedAt), "a cache hit must not pin the timestamp to computation time")
}
