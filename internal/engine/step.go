package engine

import (
	"github.com/talgya/coopsim/internal/members"
	"github.com/talgya/coopsim/internal/params"
	"github.com/talgya/coopsim/internal/sampler"
)

// Scenario selects which weekly update rule a Stepper applies.
type Scenario int

const (
	// ScenarioTraditional is the individualist economy: income in, budget
	// out, no internal market.
	ScenarioTraditional Scenario = iota
	// ScenarioCooperative adds the internal market, savings on internal
	// spend, token rewards, and the weekly cooperative fee.
	ScenarioCooperative
)

// Stepper advances one scenario's population a week at a time. Each stepper
// owns its variate source, so the two scenarios consume independent RNG
// streams and stay comparable draw-for-draw across runs.
type Stepper struct {
	scenario Scenario
	src      *sampler.Source
	shock    *Shock

	income      sampler.Floored
	budget      sampler.Floored
	propensity  sampler.Clamped
	tokenReward sampler.Floored

	savingsRate     float64
	tokenRewardMean float64
	tokenValue      float64
	coopFee         float64
}

// NewStepper builds a stepper for one scenario. Distribution construction
// re-validates stddevs, so a stepper never produces a bad draw once built.
func NewStepper(scenario Scenario, p params.ParameterSet, src *sampler.Source, shock *Shock) (*Stepper, error) {
	income, err := sampler.NewFloored(p.WeeklyIncomeStdDev, p.MinWeeklyIncome)
	if err != nil {
		return nil, err
	}
	budget, err := sampler.NewFloored(p.WeeklyFoodBudgetStdDev, p.MinWeeklyBudget)
	if err != nil {
		return nil, err
	}
	propensity, err := sampler.NewClamped(p.PercentSpendInternalStdDev, 0, 1)
	if err != nil {
		return nil, err
	}
	tokenReward, err := sampler.NewFloored(p.GrotokenRewardStdDev, 0)
	if err != nil {
		return nil, err
	}
	return &Stepper{
		scenario:    scenario,
		src:         src,
		shock:       shock,
		income:      income,
		budget:      budget,
		propensity:  propensity,
		tokenReward: tokenReward,
		savingsRate:     p.AvgInternalSavingsRate(),
		tokenRewardMean: p.GrotokenRewardPerWeekAvg,
		tokenValue:      p.GrotokenUSDValue,
		coopFee:         p.WeeklyCoopFeeB,
	}, nil
}

// StepWeek advances every member one week, in slice order so the draw
// sequence is reproducible.
func (s *Stepper) StepWeek(pop []*members.Member, week int) {
	incomeScale := s.shock.IncomeScale(week)
	budgetScale := s.shock.BudgetScale(week)

	for _, m := range pop {
		income := s.income.Draw(s.src, m.IncomeMean) * incomeScale
		budget := s.budget.Draw(s.src, m.BudgetMean) * budgetScale

		switch s.scenario {
		case ScenarioTraditional:
			m.Wealth = clampZero(m.Wealth + income - budget)

		case ScenarioCooperative:
			share := s.propensity.Draw(s.src, m.InternalSpendMean)
			internalSpend := budget * share
			externalSpend := budget * (1 - share)

			// Cooperative purchasing discounts the internal share.
			effectiveInternalCost := internalSpend * (1 - s.savingsRate)
			m.USDBalance = clampZero(m.USDBalance + income - effectiveInternalCost - externalSpend)
			m.CumulativeSavings += internalSpend - effectiveInternalCost

			m.TokenBalance += s.tokenReward.Draw(s.src, s.tokenRewardMean)

			// Fee caps at the available balance; it is never carried as debt.
			fee := s.coopFee
			if fee > m.USDBalance {
				fee = m.USDBalance
			}
			m.USDBalance -= fee

			m.Wealth = m.USDBalance + m.TokenBalance*s.tokenValue
		}
	}
}

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
