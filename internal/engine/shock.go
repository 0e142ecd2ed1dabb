package engine

import "github.com/talgya/coopsim/internal/params"

// Shock turns a configured ShockEvent into per-week draw scale factors.
// A nil Shock is a no-op: both scales are 1 for every week.
type Shock struct {
	event *params.ShockEvent
}

// NewShock wraps the event; event may be nil for a shock-free run.
func NewShock(event *params.ShockEvent) *Shock {
	return &Shock{event: event}
}

func (s *Shock) active(week int) bool {
	if s == nil || s.event == nil {
		return false
	}
	return week >= s.event.StartWeek && week < s.event.StartWeek+s.event.DurationWeeks
}

// IncomeScale multiplies income draws for the given week.
func (s *Shock) IncomeScale(week int) float64 {
	if !s.active(week) {
		return 1
	}
	switch s.event.Type {
	case params.ShockIncomeReduction:
		return 1 - s.event.Magnitude
	case params.ShockMarketDisruption:
		return 1 - s.event.Magnitude/2
	}
	return 1
}

// BudgetScale multiplies budget draws for the given week.
func (s *Shock) BudgetScale(week int) float64 {
	if !s.active(week) {
		return 1
	}
	switch s.event.Type {
	case params.ShockSpendingIncrease:
		return 1 + s.event.Magnitude
	case params.ShockMarketDisruption:
		return 1 + s.event.Magnitude/2
	}
	return 1
}
