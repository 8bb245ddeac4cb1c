// Package events defines the usage-event telemetry published by the engine.
// Publishing is best-effort: a failed publish is logged and never surfaces
// to the request that triggered it.
package events

import (
	"context"
	"strconv"
	"time"
)

// Usage-event types.
const (
	TypeBriefingGenerated = "workspace.briefing.generated"
	TypeScoresComputed    = "workspace.scores.computed"
)

// UsageEvent is one telemetry record.  Identity is the authenticated caller
// the event is attributed to.
type UsageEvent struct {
	Type       string            `json:"type"`
	Identity   string            `json:"identity"`
	OccurredAt time.Time         `json:"occurredAt"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Publisher is the outbound telemetry port.  Implementations must not block
// request handling beyond their own bounded write timeout.
type Publisher interface {
	Publish(ctx context.Context, event UsageEvent) error
}

// NopPublisher discards all events.  Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, UsageEvent) error { return nil }

// BriefingGenerated builds the telemetry record for one briefing run.
func BriefingGenerated(identity string, aiEnhanced bool, at time.Time) UsageEvent {
	enhanced := "false"
	if aiEnhanced {
		enhanced = "true"
	}
	return UsageEvent{
		Type:       TypeBriefingGenerated,
		Identity:   identity,
		OccurredAt: at,
		Attributes: map[string]string{"aiEnhanced": enhanced},
	}
}

// ScoresComputed builds the telemetry record for one batch scoring run.
func ScoresComputed(identity string, items int, at time.Time) UsageEvent {
	return UsageEvent{
		Type:       TypeScoresComputed,
		Identity:   identity,
		OccurredAt: at,
		Attributes: map[string]string{"items": strconv.Itoa(items)},
	}
}
