// Package metrics reduces population snapshots into the distributional and
// resilience statistics reported for each simulated week.
package metrics

import (
	"fmt"
	"sort"

	"github.com/talgya/coopsim/internal/members"
	"github.com/talgya/coopsim/internal/params"
)

// DegenerateInputError reports a statistic that cannot be computed, e.g. a
// division over a zero population. Fatal: the run aborts rather than emit NaN.
type DegenerateInputError struct {
	Stat   string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("cannot compute %s: %s", e.Stat, e.Reason)
}

// WeeklySnapshot is the aggregated view of one week, both scenarios inlined.
// Immutable once produced; appended to the run history.
type WeeklySnapshot struct {
	Week    int `json:"Week"`
	Year    int `json:"Year"`
	Quarter int `json:"Quarter"`

	TotalWealthA  float64 `json:"TotalWealth_A"`
	TotalWealthB  float64 `json:"TotalWealth_B"`
	AvgWealthA    float64 `json:"AvgWealth_A"`
	AvgWealthB    float64 `json:"AvgWealth_B"`
	MedianWealthA float64 `json:"MedianWealth_A"`
	MedianWealthB float64 `json:"MedianWealth_B"`

	GiniA float64 `json:"Gini_A"`
	GiniB float64 `json:"Gini_B"`

	WealthQuintilesA [4]float64 `json:"WealthQuintiles_A"`
	WealthQuintilesB [4]float64 `json:"WealthQuintiles_B"`

	Top10PercentA    float64 `json:"Top10Percent_A"`
	Top10PercentB    float64 `json:"Top10Percent_B"`
	Bottom10PercentA float64 `json:"Bottom10Percent_A"`
	Bottom10PercentB float64 `json:"Bottom10Percent_B"`

	// WealthGap is mean(top 20%) / mean(bottom 20%); nil when the bottom
	// quintile holds effectively nothing (the ratio is undefined).
	WealthGapA *float64 `json:"WealthGap_A,omitempty"`
	WealthGapB *float64 `json:"WealthGap_B,omitempty"`

	Bottom20PctShare float64 `json:"Bottom20PctShare"`

	PovertyRateA float64 `json:"PovertyRate_A"`
	PovertyRateB float64 `json:"PovertyRate_B"`

	// Cooperative-only indices. Scenario A has no internal economy, so these
	// describe Scenario B and are absent for A by construction.
	LocalEconomyStrength float64 `json:"LocalEconomyStrength"`
	WealthMobility       float64 `json:"WealthMobility"`
	CommunityResilience  float64 `json:"CommunityResilience"`

	// Relative week-over-week deltas for the headline Scenario B series.
	AvgWealthBTrend           float64 `json:"AvgWealth_B_Trend"`
	GiniBTrend                float64 `json:"Gini_B_Trend"`
	PovertyRateBTrend         float64 `json:"PovertyRate_B_Trend"`
	LocalEconomyStrengthTrend float64 `json:"LocalEconomyStrength_Trend"`
	CommunityResilienceTrend  float64 `json:"CommunityResilience_Trend"`
}

// Calculator computes weekly snapshots for one run. It keeps the previous
// week's Scenario B ranks (for mobility) and snapshot (for trends).
type Calculator struct {
	povertyLine float64
	prevRanksB  map[string]int
	prev        *WeeklySnapshot
}

// NewCalculator builds a calculator for one run's parameter set.
func NewCalculator(p params.ParameterSet) *Calculator {
	return &Calculator{povertyLine: p.PovertyLine()}
}

// WeekSnapshot reduces both populations for one week. Fails fast on an empty
// population rather than emitting NaN anywhere downstream.
func (c *Calculator) WeekSnapshot(week int, popA, popB []*members.Member) (WeeklySnapshot, error) {
	if len(popA) == 0 || len(popB) == 0 {
		return WeeklySnapshot{}, &DegenerateInputError{Stat: "weekly snapshot", Reason: "zero population"}
	}

	wealthA := wealthVector(popA)
	wealthB := wealthVector(popB)

	snap := WeeklySnapshot{
		Week:    week,
		Year:    (week-1)/52 + 1,
		Quarter: ((week - 1) % 52) / 13 + 1,

		TotalWealthA:  sum(wealthA),
		TotalWealthB:  sum(wealthB),
		MedianWealthA: Median(wealthA),
		MedianWealthB: Median(wealthB),

		GiniA: Gini(wealthA),
		GiniB: Gini(wealthB),

		WealthQuintilesA: Quintiles(wealthA),
		WealthQuintilesB: Quintiles(wealthB),

		Top10PercentA:    Percentile(wealthA, 90),
		Top10PercentB:    Percentile(wealthB, 90),
		Bottom10PercentA: Percentile(wealthA, 10),
		Bottom10PercentB: Percentile(wealthB, 10),

		WealthGapA: WealthGap(wealthA),
		WealthGapB: WealthGap(wealthB),

		Bottom20PctShare: Bottom20Share(wealthB),

		PovertyRateA: PovertyRate(wealthA, c.povertyLine),
		PovertyRateB: PovertyRate(wealthB, c.povertyLine),
	}
	snap.AvgWealthA = snap.TotalWealthA / float64(len(popA))
	snap.AvgWealthB = snap.TotalWealthB / float64(len(popB))

	snap.LocalEconomyStrength = localEconomyStrength(popB)
	snap.WealthMobility = c.wealthMobility(popB)
	snap.CommunityResilience = 1 - snap.PovertyRateB

	if c.prev != nil {
		snap.AvgWealthBTrend = relativeDelta(c.prev.AvgWealthB, snap.AvgWealthB)
		snap.GiniBTrend = relativeDelta(c.prev.GiniB, snap.GiniB)
		snap.PovertyRateBTrend = relativeDelta(c.prev.PovertyRateB, snap.PovertyRateB)
		snap.LocalEconomyStrengthTrend = relativeDelta(c.prev.LocalEconomyStrength, snap.LocalEconomyStrength)
		snap.CommunityResilienceTrend = relativeDelta(c.prev.CommunityResilience, snap.CommunityResilience)
	}

	prev := snap
	c.prev = &prev
	return snap, nil
}

// Gini computes the Gini coefficient over a wealth vector using the sorted
// index formula G = Σ((2i − n − 1)·w_i) / (n·Σw), i 1-based over ascending w.
// Negative entries are clamped to zero first; an all-zero or empty vector
// yields 0 by definition.
func Gini(wealth []float64) float64 {
	n := len(wealth)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	for i, w := range wealth {
		if w < 0 {
			w = 0
		}
		sorted[i] = w
	}
	sort.Float64s(sorted)

	total := 0.0
	weighted := 0.0
	for i, w := range sorted {
		total += w
		weighted += float64(2*(i+1)-n-1) * w
	}
	if total == 0 {
		return 0
	}
	return weighted / (float64(n) * total)
}

// Percentile returns the nearest-rank percentile of a wealth vector.
// Nearest-rank (not interpolated) keeps results exactly reproducible.
func Percentile(wealth []float64, pct float64) float64 {
	n := len(wealth)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), wealth...)
	sort.Float64s(sorted)

	rank := int(float64(n)*pct/100 + 0.9999999999)
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

// Quintiles returns the wealth values at the 20/40/60/80th percentiles.
// The boundaries are non-decreasing by construction.
func Quintiles(wealth []float64) [4]float64 {
	return [4]float64{
		Percentile(wealth, 20),
		Percentile(wealth, 40),
		Percentile(wealth, 60),
		Percentile(wealth, 80),
	}
}

// Median is the 50th nearest-rank percentile.
func Median(wealth []float64) float64 {
	return Percentile(wealth, 50)
}

// PovertyRate is the fraction of members below the poverty line.
func PovertyRate(wealth []float64, povertyLine float64) float64 {
	if len(wealth) == 0 {
		return 0
	}
	below := 0
	for _, w := range wealth {
		if w < povertyLine {
			below++
		}
	}
	return float64(below) / float64(len(wealth))
}

// WealthGap is mean(top 20%) / mean(bottom 20%) over the sorted vector.
// Returns nil when fewer than 5 members exist or the bottom quintile holds
// effectively nothing: the ratio is undefined, not infinite-as-a-number.
func WealthGap(wealth []float64) *float64 {
	n := len(wealth)
	if n < 5 {
		return nil
	}
	sorted := make([]float64, n)
	for i, w := range wealth {
		if w < 0 {
			w = 0
		}
		sorted[i] = w
	}
	sort.Float64s(sorted)

	cut := n / 5
	bottomMean := sum(sorted[:cut]) / float64(cut)
	topMean := sum(sorted[n-cut:]) / float64(cut)
	if bottomMean <= 1e-6 {
		return nil
	}
	gap := topMean / bottomMean
	return &gap
}

// Bottom20Share is the share of total wealth held by the poorest 20%.
func Bottom20Share(wealth []float64) float64 {
	n := len(wealth)
	if n < 5 {
		return 0
	}
	sorted := make([]float64, n)
	for i, w := range wealth {
		if w < 0 {
			w = 0
		}
		sorted[i] = w
	}
	sort.Float64s(sorted)

	total := sum(sorted)
	if total <= 1e-6 {
		return 0
	}
	return sum(sorted[:n/5]) / total
}

// localEconomyStrength weights each member's internal-spend propensity by
// their budget, measuring how much of the community's spending power stays
// internal.
func localEconomyStrength(pop []*members.Member) float64 {
	totalBudget := 0.0
	internal := 0.0
	for _, m := range pop {
		totalBudget += m.BudgetMean
		internal += m.BudgetMean * m.InternalSpendMean
	}
	if totalBudget == 0 {
		return 0
	}
	return internal / totalBudget
}

// wealthMobility is the mean absolute week-over-week change in wealth rank,
// normalized by the maximum possible displacement (n−1). 0 on the first week.
func (c *Calculator) wealthMobility(pop []*members.Member) float64 {
	n := len(pop)
	ranks := make(map[string]int, n)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return pop[order[i]].Wealth < pop[order[j]].Wealth
	})
	for rank, idx := range order {
		ranks[pop[idx].ID] = rank
	}

	prev := c.prevRanksB
	c.prevRanksB = ranks
	if prev == nil || n < 2 {
		return 0
	}

	totalShift := 0.0
	for id, rank := range ranks {
		if old, ok := prev[id]; ok {
			shift := rank - old
			if shift < 0 {
				shift = -shift
			}
			totalShift += float64(shift)
		}
	}
	return totalShift / (float64(n) * float64(n-1))
}

func relativeDelta(prev, cur float64) float64 {
	if prev > 1e-6 || prev < -1e-6 {
		return (cur - prev) / abs(prev)
	}
	switch {
	case cur > prev:
		return 1
	case cur < prev:
		return -1
	}
	return 0
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}

func wealthVector(pop []*members.Member) []float64 {
	out := make([]float64, len(pop))
	for i, m := range pop {
		out[i] = m.Wealth
	}
	return out
}
