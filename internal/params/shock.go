package params

import "fmt"

// ShockType names the economic disturbance applied during a resilience test.
type ShockType string

const (
	ShockIncomeReduction  ShockType = "income_reduction"
	ShockSpendingIncrease ShockType = "spending_increase"
	ShockMarketDisruption ShockType = "market_disruption"
)

// ShockEvent perturbs weekly draws for a bounded window. Read-only once
// constructed; the injector derives per-week scale factors from it.
type ShockEvent struct {
	Type          ShockType `json:"type" toml:"type"`
	Magnitude     float64   `json:"magnitude" toml:"magnitude"`
	DurationWeeks int       `json:"duration_weeks" toml:"duration_weeks"`
	StartWeek     int       `json:"start_week" toml:"start_week"`
}

func (s *ShockEvent) validate(simulationWeeks int) error {
	switch s.Type {
	case ShockIncomeReduction, ShockSpendingIncrease, ShockMarketDisruption:
	default:
		return &ConfigurationError{"SHOCK.type", fmt.Sprintf("unknown shock type %q", s.Type)}
	}
	if s.Magnitude < 0 || s.Magnitude > 1 {
		return &ConfigurationError{"SHOCK.magnitude", "must be in [0, 1]"}
	}
	if s.DurationWeeks < 1 {
		return &ConfigurationError{"SHOCK.duration_weeks", "must be at least 1"}
	}
	if s.StartWeek < 1 {
		return &ConfigurationError{"SHOCK.start_week", "must be at least 1"}
	}
	if s.StartWeek > simulationWeeks {
		return &ConfigurationError{"SHOCK.start_week", fmt.Sprintf("must be within the %d simulated weeks", simulationWeeks)}
	}
	return nil
}
