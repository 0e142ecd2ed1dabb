package params

// Named presets for the batch harness and the API. Each preset is a full
// parameter set derived from Default; applying one never mutates shared state.

// PresetNames lists the built-in presets in report order.
func PresetNames() []string {
	return []string{
		"baseline",
		"high_participation",
		"large_community",
		"stressed",
		"unequal_start",
	}
}

// Preset returns a copy of the named preset, or ok=false if it does not exist.
func Preset(name string) (ParameterSet, bool) {
	p := Default()
	switch name {
	case "baseline":
		p.Description = "Baseline: one year, 100 members, moderate cooperation"
		p.NumMembers = 100
		p.SimulationWeeks = 52
		p.WeeklyIncomeAvg = 200
		p.WeeklyFoodBudgetAvg = 100
		p.PercentSpendInternalAvg = 0.4
		p.GroupBuySavingsPercent = 0.15
		p.LocalProductionSavingsPercent = 0.2
		p.GrotokenRewardPerWeekAvg = 10
		p.GrotokenRewardStdDev = 2
		p.GrotokenUSDValue = 2
		p.WeeklyCoopFeeB = 1
	case "high_participation":
		p.Description = "High participation: 80% of budgets spent internally"
		p.NumMembers = 50
		p.SimulationWeeks = 104
		p.PercentSpendInternalAvg = 0.8
		p.PercentSpendInternalStdDev = 0.1
	case "large_community":
		p.Description = "Large community: 1000 members, low cooperation"
		p.NumMembers = 1000
		p.SimulationWeeks = 52
		p.PercentSpendInternalAvg = 0.3
	case "stressed":
		p.Description = "Economic stress: budgets consume nearly all income"
		p.NumMembers = 100
		p.SimulationWeeks = 52
		p.WeeklyIncomeAvg = 110
		p.WeeklyIncomeStdDev = 25
		p.WeeklyFoodBudgetAvg = 95
		p.WeeklyFoodBudgetStdDev = 20
	case "unequal_start":
		p.Description = "Unequal start: wide log-normal wealth spread"
		p.NumMembers = 200
		p.SimulationWeeks = 104
		p.InitialWealthSigmaLog = 1.3
	default:
		return ParameterSet{}, false
	}
	return p, true
}
