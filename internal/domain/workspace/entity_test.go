package workspace

import (
	"testing"
	"time"
)

func TestMatter_UtilizationPercent_ZeroBudget(t *testing.T) {
	m := &Matter{Budget: 0, Spend: 5000}
	if got := m.UtilizationPercent(); got != 0 {
		t.Errorf("zero budget must yield 0, got %f", got)
	}
}

func TestMatter_AtRisk(t *testing.T) {
	cases := []struct {
		name    string
		budget  float64
		spend   float64
		overdue int
		pending int
		want    bool
	}{
		{"healthy", 10000, 5000, 0, 0, false},
		{"high utilization", 10000, 9000, 0, 0, true},
		{"overdue event", 10000, 1000, 1, 0, true},
		{"invoice backlog at band", 10000, 1000, 0, 5, true},
		{"invoice backlog below band", 10000, 1000, 0, 4, false},
		{"zero budget no signals", 0, 1000, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &Matter{Budget: tc.budget, Spend: tc.spend}
			if got := m.AtRisk(tc.overdue, tc.pending); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestWorkEvent_Overdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name   string
		due    *time.Time
		status EventStatus
		want   bool
	}{
		{"past due open", &past, EventStatusOpen, true},
		{"past due completed", &past, EventStatusCompleted, false},
		{"future due", &future, EventStatusOpen, false},
		{"no deadline", nil, EventStatusOpen, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := &WorkEvent{DueDate: tc.due, Status: tc.status}
			if got := e.Overdue(now); got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestUtilization(t *testing.T) {
	if got := Utilization(0, 0); got != 0 {
		t.Errorf("zero budget: got %f", got)
	}
	if got := Utilization(7500, 10000); got != 75.0 {
		t.Errorf("expected 75.0, got %f", got)
	}
	// Over-budget portfolios are reported, not clamped.
	if got := Utilization(12000, 10000); got != 120.0 {
		t.Errorf("expected 120.0, got %f", got)
	}
}

func TestParseValueTier(t *testing.T) {
	for _, valid := range []string{"Low", "Medium", "High"} {
		if _, ok := ParseValueTier(valid); !ok {
			t.Errorf("%s must parse", valid)
		}
	}
	if _, ok := ParseValueTier("Extreme"); ok {
		t.Error("unknown tier must not parse")
	}
}
