package main

import (
	"context"

	"github.com/spaarke/workspace-engine/internal/application/events"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/prometheus"
)

// instrumentedPublisher counts usage events by type before delegating to the
// real producer.
type instrumentedPublisher struct {
	inner   events.Publisher
	metrics *prometheus.Metrics
}

func (p *instrumentedPublisher) Publish(ctx context.Context, event events.UsageEvent) error {
	p.metrics.ObserveUsageEvent(event.Type)
	return p.inner.Publish(ctx, event)
}
