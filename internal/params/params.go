// Package params defines the validated, immutable simulation configuration.
// A ParameterSet is constructed once per run: decoded over defaults (or over
// a named preset), validated exhaustively, and never mutated afterward.
package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ConfigurationError reports an out-of-range or malformed parameter.
// It is raised before any simulation work begins.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// ParameterSet holds every tunable input of a simulation run. JSON keys match
// the request contract (upper-snake names). Treat values as read-only after
// Validate; preset application and request merging always produce a fresh copy.
type ParameterSet struct {
	Description string `json:"description,omitempty" toml:"description"`

	NumMembers      int `json:"NUM_MEMBERS" toml:"NUM_MEMBERS"`
	SimulationWeeks int `json:"SIMULATION_WEEKS" toml:"SIMULATION_WEEKS"`

	InitialWealthMeanLog  float64 `json:"INITIAL_WEALTH_MEAN_LOG" toml:"INITIAL_WEALTH_MEAN_LOG"`
	InitialWealthSigmaLog float64 `json:"INITIAL_WEALTH_SIGMA_LOG" toml:"INITIAL_WEALTH_SIGMA_LOG"`

	WeeklyIncomeAvg    float64 `json:"WEEKLY_INCOME_AVG" toml:"WEEKLY_INCOME_AVG"`
	WeeklyIncomeStdDev float64 `json:"WEEKLY_INCOME_STDDEV" toml:"WEEKLY_INCOME_STDDEV"`
	MinWeeklyIncome    float64 `json:"MIN_WEEKLY_INCOME" toml:"MIN_WEEKLY_INCOME"`

	WeeklyFoodBudgetAvg    float64 `json:"WEEKLY_FOOD_BUDGET_AVG" toml:"WEEKLY_FOOD_BUDGET_AVG"`
	WeeklyFoodBudgetStdDev float64 `json:"WEEKLY_FOOD_BUDGET_STDDEV" toml:"WEEKLY_FOOD_BUDGET_STDDEV"`
	MinWeeklyBudget        float64 `json:"MIN_WEEKLY_BUDGET" toml:"MIN_WEEKLY_BUDGET"`

	PercentSpendInternalAvg    float64 `json:"PERCENT_SPEND_INTERNAL_AVG" toml:"PERCENT_SPEND_INTERNAL_AVG"`
	PercentSpendInternalStdDev float64 `json:"PERCENT_SPEND_INTERNAL_STDDEV" toml:"PERCENT_SPEND_INTERNAL_STDDEV"`

	GroupBuySavingsPercent        float64 `json:"GROUP_BUY_SAVINGS_PERCENT" toml:"GROUP_BUY_SAVINGS_PERCENT"`
	LocalProductionSavingsPercent float64 `json:"LOCAL_PRODUCTION_SAVINGS_PERCENT" toml:"LOCAL_PRODUCTION_SAVINGS_PERCENT"`

	GrotokenRewardPerWeekAvg float64 `json:"GROTOKEN_REWARD_PER_WEEK_AVG" toml:"GROTOKEN_REWARD_PER_WEEK_AVG"`
	GrotokenRewardStdDev     float64 `json:"GROTOKEN_REWARD_STDDEV" toml:"GROTOKEN_REWARD_STDDEV"`
	GrotokenUSDValue         float64 `json:"GROTOKEN_USD_VALUE" toml:"GROTOKEN_USD_VALUE"`

	WeeklyCoopFeeB float64 `json:"WEEKLY_COOP_FEE_B" toml:"WEEKLY_COOP_FEE_B"`

	Seed int64 `json:"SEED" toml:"SEED"`

	Shock *ShockEvent `json:"SHOCK,omitempty" toml:"SHOCK"`
}

// Default returns the baseline parameter set. Values follow the reference
// community model: ~$1000 median starting wealth, $150/week income against a
// $75/week food budget, and a modest cooperative savings spread.
func Default() ParameterSet {
	return ParameterSet{
		Description:                   "Default community parameters",
		NumMembers:                    50,
		SimulationWeeks:               52 * 3,
		InitialWealthMeanLog:          math.Log(1000),
		InitialWealthSigmaLog:         0.6,
		WeeklyIncomeAvg:               150.0,
		WeeklyIncomeStdDev:            40.0,
		MinWeeklyIncome:               0.0,
		WeeklyFoodBudgetAvg:           75.0,
		WeeklyFoodBudgetStdDev:        15.0,
		MinWeeklyBudget:               20.0,
		PercentSpendInternalAvg:       0.60,
		PercentSpendInternalStdDev:    0.20,
		GroupBuySavingsPercent:        0.15,
		LocalProductionSavingsPercent: 0.25,
		GrotokenRewardPerWeekAvg:      0.5,
		GrotokenRewardStdDev:          0.2,
		GrotokenUSDValue:              2.0,
		WeeklyCoopFeeB:                1.0,
		Seed:                          42,
	}
}

// PovertyLine is the wealth threshold below which a member counts as poor:
// four weeks of average food budget (one month of subsistence).
func (p ParameterSet) PovertyLine() float64 {
	return p.WeeklyFoodBudgetAvg * 4
}

// AvgInternalSavingsRate is the effective discount applied to internal
// spending in Scenario B, averaging the group-buy and local-production
// channels.
func (p ParameterSet) AvgInternalSavingsRate() float64 {
	return (p.GroupBuySavingsPercent + p.LocalProductionSavingsPercent) / 2
}

// Validate checks every field against its documented range. It returns a
// *ConfigurationError for the first violation found.
func (p ParameterSet) Validate() error {
	if p.NumMembers < 10 {
		return &ConfigurationError{"NUM_MEMBERS", fmt.Sprintf("must be at least 10, got %d", p.NumMembers)}
	}
	if p.NumMembers > 100000 {
		return &ConfigurationError{"NUM_MEMBERS", fmt.Sprintf("must be at most 100000, got %d", p.NumMembers)}
	}
	if p.SimulationWeeks < 12 {
		return &ConfigurationError{"SIMULATION_WEEKS", fmt.Sprintf("must be at least 12, got %d", p.SimulationWeeks)}
	}
	if p.SimulationWeeks > 5200 {
		return &ConfigurationError{"SIMULATION_WEEKS", fmt.Sprintf("must be at most 5200, got %d", p.SimulationWeeks)}
	}
	if p.InitialWealthSigmaLog < 0 || p.InitialWealthSigmaLog > 3 {
		return &ConfigurationError{"INITIAL_WEALTH_SIGMA_LOG", "must be in [0, 3]"}
	}
	if p.WeeklyIncomeAvg <= 0 {
		return &ConfigurationError{"WEEKLY_INCOME_AVG", "must be positive"}
	}
	if p.WeeklyIncomeStdDev < 0 {
		return &ConfigurationError{"WEEKLY_INCOME_STDDEV", "must be non-negative"}
	}
	if p.MinWeeklyIncome < 0 {
		return &ConfigurationError{"MIN_WEEKLY_INCOME", "must be non-negative"}
	}
	if p.WeeklyFoodBudgetAvg <= 0 {
		return &ConfigurationError{"WEEKLY_FOOD_BUDGET_AVG", "must be positive"}
	}
	if p.WeeklyFoodBudgetStdDev < 0 {
		return &ConfigurationError{"WEEKLY_FOOD_BUDGET_STDDEV", "must be non-negative"}
	}
	if p.MinWeeklyBudget < 0 {
		return &ConfigurationError{"MIN_WEEKLY_BUDGET", "must be non-negative"}
	}
	if p.PercentSpendInternalAvg < 0 || p.PercentSpendInternalAvg > 1 {
		return &ConfigurationError{"PERCENT_SPEND_INTERNAL_AVG", "must be in [0, 1]"}
	}
	if p.PercentSpendInternalStdDev < 0 {
		return &ConfigurationError{"PERCENT_SPEND_INTERNAL_STDDEV", "must be non-negative"}
	}
	if p.GroupBuySavingsPercent < 0 || p.GroupBuySavingsPercent > 1 {
		return &ConfigurationError{"GROUP_BUY_SAVINGS_PERCENT", "must be in [0, 1]"}
	}
	if p.LocalProductionSavingsPercent < 0 || p.LocalProductionSavingsPercent > 1 {
		return &ConfigurationError{"LOCAL_PRODUCTION_SAVINGS_PERCENT", "must be in [0, 1]"}
	}
	if p.GroupBuySavingsPercent+p.LocalProductionSavingsPercent > 1 {
		return &ConfigurationError{"GROUP_BUY_SAVINGS_PERCENT", "combined savings channels must not exceed 1"}
	}
	if p.GrotokenRewardPerWeekAvg < 0 {
		return &ConfigurationError{"GROTOKEN_REWARD_PER_WEEK_AVG", "must be non-negative"}
	}
	if p.GrotokenRewardStdDev < 0 {
		return &ConfigurationError{"GROTOKEN_REWARD_STDDEV", "must be non-negative"}
	}
	if p.GrotokenUSDValue < 0 {
		return &ConfigurationError{"GROTOKEN_USD_VALUE", "must be non-negative"}
	}
	if p.WeeklyCoopFeeB < 0 {
		return &ConfigurationError{"WEEKLY_COOP_FEE_B", "must be non-negative"}
	}
	if p.Shock != nil {
		if err := p.Shock.validate(p.SimulationWeeks); err != nil {
			return err
		}
	}
	return nil
}

// ApplyJSON merges a JSON document over base and returns the validated result.
// Unknown fields are rejected before simulation begins.
func ApplyJSON(base ParameterSet, data []byte) (ParameterSet, error) {
	merged := base
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&merged); err != nil {
		return ParameterSet{}, &ConfigurationError{"request", err.Error()}
	}
	if err := merged.Validate(); err != nil {
		return ParameterSet{}, err
	}
	return merged, nil
}

// ParseRequest decodes a simulation request body. An optional "preset" field
// selects the merge base; all other fields override it. The chosen preset
// name (empty for none) is returned alongside the resolved parameters.
func ParseRequest(data []byte) (ParameterSet, string, error) {
	var probe struct {
		Preset string `json:"preset"`
	}
	// Lenient first pass: only the preset name matters here.
	if err := json.Unmarshal(data, &probe); err != nil {
		return ParameterSet{}, "", &ConfigurationError{"request", err.Error()}
	}

	base := Default()
	if probe.Preset != "" {
		preset, ok := Preset(probe.Preset)
		if !ok {
			return ParameterSet{}, "", &ConfigurationError{"preset", fmt.Sprintf("unknown preset %q", probe.Preset)}
		}
		base = preset
	}

	var req struct {
		Preset string `json:"preset,omitempty"`
		ParameterSet
	}
	req.ParameterSet = base
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return ParameterSet{}, "", &ConfigurationError{"request", err.Error()}
	}
	if err := req.ParameterSet.Validate(); err != nil {
		return ParameterSet{}, "", err
	}
	return req.ParameterSet, probe.Preset, nil
}
