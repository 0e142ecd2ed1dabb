// Package members holds per-scenario member state and builds the shared
// initial population. Both scenarios are cloned from one sampling pass so
// that any divergence is attributable to scenario mechanics, not sampling
// noise.
package members

import (
	"fmt"

	"github.com/talgya/coopsim/internal/params"
	"github.com/talgya/coopsim/internal/sampler"
)

// Member is one individual's state within a single scenario. The stepper
// mutates it once per simulated week.
type Member struct {
	ID            string  `json:"id"`
	InitialWealth float64 `json:"initial_wealth"`

	// Per-member means drawn once at initialization; weekly draws re-sample
	// around them.
	IncomeMean        float64 `json:"income_mean"`
	BudgetMean        float64 `json:"budget_mean"`
	InternalSpendMean float64 `json:"internal_spend_mean"`

	// Wealth is the reported wealth for the most recent week. For Scenario B
	// it equals USDBalance plus the USD value of the token balance.
	Wealth float64 `json:"wealth"`

	// Scenario B ledger. Zero and unused in Scenario A.
	USDBalance        float64 `json:"usd_balance"`
	TokenBalance      float64 `json:"token_balance"`
	CumulativeSavings float64 `json:"cumulative_savings"`
}

// Initialize builds the two member collections from a single sampling pass.
// Population size is re-checked here so the error surfaces before any
// sampling occurs, even if the caller skipped ParameterSet.Validate.
func Initialize(p params.ParameterSet, src *sampler.Source) (scenarioA, scenarioB []*Member, err error) {
	if p.NumMembers < 10 {
		return nil, nil, &params.ConfigurationError{
			Field:  "NUM_MEMBERS",
			Reason: fmt.Sprintf("must be at least 10, got %d", p.NumMembers),
		}
	}

	wealth, err := sampler.NewLogNormal(p.InitialWealthMeanLog, p.InitialWealthSigmaLog)
	if err != nil {
		return nil, nil, err
	}
	income, err := sampler.NewFloored(p.WeeklyIncomeStdDev, p.MinWeeklyIncome)
	if err != nil {
		return nil, nil, err
	}
	budget, err := sampler.NewFloored(p.WeeklyFoodBudgetStdDev, p.MinWeeklyBudget)
	if err != nil {
		return nil, nil, err
	}
	propensity, err := sampler.NewClamped(p.PercentSpendInternalStdDev, 0, 1)
	if err != nil {
		return nil, nil, err
	}

	scenarioA = make([]*Member, p.NumMembers)
	scenarioB = make([]*Member, p.NumMembers)
	for i := 0; i < p.NumMembers; i++ {
		m := Member{
			ID:                fmt.Sprintf("M_%d", i),
			InitialWealth:     wealth.Draw(src),
			IncomeMean:        income.Draw(src, p.WeeklyIncomeAvg),
			BudgetMean:        budget.Draw(src, p.WeeklyFoodBudgetAvg),
			InternalSpendMean: propensity.Draw(src, p.PercentSpendInternalAvg),
		}
		m.Wealth = m.InitialWealth

		a := m
		b := m
		b.USDBalance = m.InitialWealth

		scenarioA[i] = &a
		scenarioB[i] = &b
	}
	return scenarioA, scenarioB, nil
}

// TotalWealth sums reported wealth across a collection.
func TotalWealth(pop []*Member) float64 {
	total := 0.0
	for _, m := range pop {
		total += m.Wealth
	}
	return total
}
