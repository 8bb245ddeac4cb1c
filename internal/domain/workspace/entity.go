// Package workspace defines the matter / event / invoice domain entities the
// engine aggregates over, the fixed risk predicates, and the DataSource port
// backed by the record store.
package workspace

import (
	"time"

	"github.com/google/uuid"
)

// MatterStatus is the lifecycle status of a matter.
type MatterStatus string

const (
	MatterStatusActive  MatterStatus = "active"
	MatterStatusOnHold  MatterStatus = "on_hold"
	MatterStatusClosed  MatterStatus = "closed"
	MatterStatusPending MatterStatus = "pending"
)

// EventStatus is the completion status of a work event.
type EventStatus string

const (
	EventStatusOpen      EventStatus = "open"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// ValueTier buckets a matter by monetary significance.
type ValueTier string

const (
	TierLow    ValueTier = "Low"
	TierMedium ValueTier = "Medium"
	TierHigh   ValueTier = "High"
)

// ParseValueTier validates a raw tier string against the fixed enum.
func ParseValueTier(raw string) (ValueTier, bool) {
	switch ValueTier(raw) {
	case TierLow, TierMedium, TierHigh:
		return ValueTier(raw), true
	}
	return "", false
}

// Matter is a legal/business engagement owned by an identity.
type Matter struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	OwnerID   string       `json:"ownerId"`
	Status    MatterStatus `json:"status"`
	Budget    float64      `json:"budget"`
	Spend     float64      `json:"spend"`
	ValueTier ValueTier    `json:"valueTier"`
	CreatedAt time.Time    `json:"createdAt"`
}

// IsActive reports whether the matter counts toward portfolio totals.
func (m *Matter) IsActive() bool {
	return m.Status == MatterStatusActive
}

// UtilizationPercent is the matter-level spend/budget ratio as a percentage.
// Returns 0 when the budget is 0.
func (m *Matter) UtilizationPercent() float64 {
	if m.Budget == 0 {
		return 0
	}
	return m.Spend / m.Budget * 100
}

// riskUtilizationThreshold is the matter-level utilization percentage at or
// above which a matter is considered at risk.
const riskUtilizationThreshold = 90.0

// riskInvoiceBacklog is the pending-invoice count at or above which a
// matter is considered at risk, matching the invoice-backlog band of the
// priority scoring table.
const riskInvoiceBacklog = 5

// AtRisk is the fixed risk predicate for a matter: budget utilization at or
// above the threshold, at least one overdue event, or a pending-invoice
// backlog at or above the band.
func (m *Matter) AtRisk(overdueEvents, pendingInvoices int) bool {
	return m.UtilizationPercent() >= riskUtilizationThreshold ||
		overdueEvents > 0 ||
		pendingInvoices >= riskInvoiceBacklog
}

// WorkEvent is a dated unit of work attached to a matter.
type WorkEvent struct {
	ID        uuid.UUID   `json:"id"`
	MatterID  uuid.UUID   `json:"matterId"`
	EventType string      `json:"eventType"`
	Status    EventStatus `json:"status"`
	DueDate   *time.Time  `json:"dueDate,omitempty"`
}

// Overdue reports whether the event's due date has passed without
// completion, evaluated at now.
func (e *WorkEvent) Overdue(now time.Time) bool {
	if e.DueDate == nil {
		return false
	}
	if e.Status != EventStatusOpen {
		return false
	}
	return e.DueDate.Before(now)
}

// Invoice is a billing record attached to a matter.
type Invoice struct {
	ID       uuid.UUID `json:"id"`
	MatterID uuid.UUID `json:"matterId"`
	Amount   float64   `json:"amount"`
	Pending  bool      `json:"pending"`
}
