// Package validate cross-checks a simulated run against a closed-form
// estimate of the cooperative advantage. It reads only the parameter set,
// never the weekly history, so agreement between the two is evidence rather
// than tautology.
package validate

import (
	"math"

	"github.com/talgya/coopsim/internal/params"
)

// diminishingReturnsK models that the group-buy and local-production savings
// channels overlap: their combined effective rate grows sublinearly.
const diminishingReturnsK = 1.4

// Result is the analytical cross-check of one run.
type Result struct {
	ExpectedDifference float64 `json:"expected_difference"`
	ActualDifference   float64 `json:"actual_difference"`
	ErrorPercentage    float64 `json:"error_percentage"`
	ErrorThreshold     float64 `json:"error_threshold"`

	DirectionCorrect   bool `json:"direction_correct"`
	InequalityReduced  bool `json:"inequality_reduced"`
	PlausibleMagnitude bool `json:"plausible_magnitude"`
	TheoryConsistent   bool `json:"theory_consistent"`

	// Score is 0-100: 40 points for direction, 40 for closeness to the
	// estimate, 20 for plausible per-member magnitude.
	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
}

// ExpectedDifference computes the closed-form estimate of final
// TotalWealth_B − TotalWealth_A from the parameter set alone.
func ExpectedDifference(p params.ParameterSet) float64 {
	rawRate := p.GroupBuySavingsPercent + p.LocalProductionSavingsPercent
	baseRate := rawRate * (1 - rawRate*diminishingReturnsK)
	if baseRate < 0 {
		baseRate = 0
	}

	budgetIncomeRatio := 0.0
	if p.WeeklyIncomeAvg > 0 {
		budgetIncomeRatio = p.WeeklyFoodBudgetAvg / p.WeeklyIncomeAvg
	}

	combined := sizeFactor(p.NumMembers) *
		participationFactor(p.PercentSpendInternalAvg) *
		stressFactor(budgetIncomeRatio) *
		inequalityFactor(p.InitialWealthSigmaLog)
	adjusted := dampen(combined) * interaction(p.NumMembers, p.PercentSpendInternalAvg)

	adjustedRate := baseRate * adjusted

	netBenefit := p.WeeklyFoodBudgetAvg*p.PercentSpendInternalAvg*adjustedRate +
		p.GrotokenRewardPerWeekAvg*p.GrotokenUSDValue -
		p.WeeklyCoopFeeB
	return netBenefit * float64(p.SimulationWeeks) * float64(p.NumMembers)
}

// ErrorThreshold returns the acceptable relative-error band for a parameter
// set. The base band widens under economic stress and at extreme community
// sizes, where the closed form is known to be loose.
func ErrorThreshold(p params.ParameterSet) float64 {
	threshold := 0.15

	if p.WeeklyIncomeAvg > 0 {
		ratio := p.WeeklyFoodBudgetAvg / p.WeeklyIncomeAvg
		if ratio > 0.8 {
			threshold += 0.10
		} else if ratio > 0.6 {
			threshold += 0.05
		}
	}
	if p.NumMembers < 25 || p.NumMembers > 500 {
		threshold += 0.05
	}
	return threshold
}

// Evaluate scores a simulated outcome against the closed form.
// actualDiff is final TotalWealth_B − TotalWealth_A; the final Gini pair
// feeds the inequality flag only.
func Evaluate(p params.ParameterSet, actualDiff, finalGiniA, finalGiniB float64) Result {
	expected := ExpectedDifference(p)
	threshold := ErrorThreshold(p)

	errPct := 1.0
	if math.Abs(expected) > 1e-9 {
		errPct = math.Abs(actualDiff-expected) / math.Abs(expected)
	}

	res := Result{
		ExpectedDifference: expected,
		ActualDifference:   actualDiff,
		ErrorPercentage:    errPct,
		ErrorThreshold:     threshold,
		DirectionCorrect:   (actualDiff > 0) == (expected > 0),
		InequalityReduced:  finalGiniB < finalGiniA,
		TheoryConsistent:   errPct <= threshold,
	}

	// A plausible run keeps the per-member weekly advantage within an order
	// of magnitude of the member's budget.
	perMemberWeekly := 0.0
	if p.NumMembers > 0 && p.SimulationWeeks > 0 {
		perMemberWeekly = actualDiff / float64(p.NumMembers) / float64(p.SimulationWeeks)
	}
	res.PlausibleMagnitude = perMemberWeekly > -p.WeeklyFoodBudgetAvg &&
		perMemberWeekly < p.WeeklyFoodBudgetAvg*10

	score := 0.0
	if res.DirectionCorrect {
		score += 40
	}
	closeness := 1 - errPct/(2*threshold)
	if closeness > 0 {
		score += 40 * closeness
	}
	if res.PlausibleMagnitude {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	res.Score = score
	res.Passed = res.DirectionCorrect && res.TheoryConsistent
	return res
}
