package validate

// Piecewise adjustment factors for the closed-form estimate. Each factor is a
// named, table-driven lookup so the breakpoints can be retuned without
// touching the estimate itself. The literal values are empirically tuned and
// carry no contract beyond their shape: size is non-monotonic (mid-size
// communities coordinate best), participation and stress are increasing,
// inequality is mildly increasing.

type band struct {
	upTo   float64 // exclusive upper bound; the last band uses +Inf semantics
	factor float64
}

func lookup(bands []band, v float64) float64 {
	for _, b := range bands {
		if v < b.upTo {
			return b.factor
		}
	}
	return bands[len(bands)-1].factor
}

var sizeBands = []band{
	{upTo: 25, factor: 0.85},
	{upTo: 50, factor: 0.95},
	{upTo: 150, factor: 1.00},
	{upTo: 500, factor: 1.05},
	{upTo: 1000, factor: 0.95},
	{upTo: 0, factor: 0.85},
}

var participationBands = []band{
	{upTo: 0.2, factor: 0.70},
	{upTo: 0.4, factor: 0.85},
	{upTo: 0.6, factor: 1.00},
	{upTo: 0.8, factor: 1.10},
	{upTo: 0, factor: 1.15},
}

// stress is keyed on the budget/income ratio: the closer budgets come to
// consuming income, the more the cooperative savings matter.
var stressBands = []band{
	{upTo: 0.4, factor: 1.00},
	{upTo: 0.6, factor: 1.05},
	{upTo: 0.8, factor: 1.15},
	{upTo: 0, factor: 1.30},
}

var inequalityBands = []band{
	{upTo: 0.4, factor: 0.95},
	{upTo: 0.8, factor: 1.00},
	{upTo: 1.2, factor: 1.05},
	{upTo: 0, factor: 1.10},
}

func sizeFactor(numMembers int) float64 {
	return lookup(sizeBands, float64(numMembers))
}

func participationFactor(internalShare float64) float64 {
	return lookup(participationBands, internalShare)
}

func stressFactor(budgetIncomeRatio float64) float64 {
	return lookup(stressBands, budgetIncomeRatio)
}

func inequalityFactor(sigmaLog float64) float64 {
	return lookup(inequalityBands, sigmaLog)
}

// dampen compresses a combined multiplicative factor progressively: below
// 1.2 it passes through untouched, then each band keeps a shrinking share of
// the excess. Keeps the estimate bounded when several factors stack.
func dampen(combined float64) float64 {
	const passThrough = 1.2
	if combined <= passThrough {
		return combined
	}
	damped := passThrough
	excess := combined - passThrough

	steps := []struct {
		width float64
		keep  float64
	}{
		{width: 0.3, keep: 0.8}, // (1.2, 1.5]
		{width: 0.5, keep: 0.6}, // (1.5, 2.0]
	}
	for _, s := range steps {
		take := excess
		if take > s.width {
			take = s.width
		}
		damped += take * s.keep
		excess -= take
		if excess <= 0 {
			return damped
		}
	}
	return damped + excess*0.4 // beyond 2.0
}

// interaction nudges the combined factor for the two community shapes the
// independent factors misjudge: small-and-committed and large-and-diffuse.
func interaction(numMembers int, internalShare float64) float64 {
	switch {
	case numMembers < 50 && internalShare >= 0.6:
		return 1.05
	case numMembers >= 500 && internalShare < 0.4:
		return 0.95
	}
	return 1.0
}
