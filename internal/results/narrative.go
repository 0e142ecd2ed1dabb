package results

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/talgya/coopsim/internal/engine"
	"github.com/talgya/coopsim/internal/metrics"
)

// Summary is the human-readable digest of a run.
type Summary struct {
	Title         string      `json:"title"`
	Overview      string      `json:"overview"`
	KeyFindings   KeyFindings `json:"key_findings"`
	PhaseAnalysis []Phase     `json:"phase_analysis"`
	KeyEvents     []string    `json:"key_events"`
	Conclusion    string      `json:"conclusion"`
}

// KeyFindings groups the headline observations by theme.
type KeyFindings struct {
	WealthImpact     Finding `json:"wealth_impact"`
	EqualityMeasures Finding `json:"equality_measures"`
	CommunityHealth  Finding `json:"community_health"`
}

// Finding is one headline plus its supporting detail.
type Finding struct {
	Summary string `json:"summary"`
	Details string `json:"details"`
}

// Phase describes one third of the run.
type Phase struct {
	Period          string            `json:"period"`
	Type            string            `json:"type"`
	Characteristics string            `json:"characteristics"`
	Metrics         map[string]string `json:"metrics"`
}

// BuildSummary renders the narrative from a completed run's history.
func BuildSummary(history []metrics.WeeklySnapshot, events []engine.KeyEvent) Summary {
	if len(history) == 0 {
		return Summary{Title: "Error", Overview: "No simulation history data available."}
	}
	first := history[0]
	last := history[len(history)-1]

	wealthChange := 0.0
	if first.TotalWealthB != 0 {
		wealthChange = (last.TotalWealthB - first.TotalWealthB) / first.TotalWealthB
	}
	inequalityChange := last.GiniB - first.GiniB

	povertyTrend := "increased or stayed same"
	if last.PovertyRateB < first.PovertyRateB {
		povertyTrend = "decreased"
	}

	eventLines := make([]string, 0, len(events))
	for _, e := range events {
		eventLines = append(eventLines, fmt.Sprintf("Week %d: %s", e.Week, e.Description))
	}
	if len(eventLines) == 0 {
		eventLines = []string{"No significant key events detected."}
	}

	return Summary{
		Title: "Economic System Evolution Analysis",
		Overview: fmt.Sprintf(
			"Over %d weeks, the community's economic system under Scenario B (Cooperative) showed notable changes compared to Scenario A (Existing).",
			len(history)),
		KeyFindings: KeyFindings{
			WealthImpact: Finding{
				Summary: fmt.Sprintf("Total wealth in Scenario B %s by %.1f%% compared to its start.",
					growthVerb(wealthChange), abs(wealthChange)*100),
				Details: fmt.Sprintf(
					"Average wealth in B finished at $%s, compared to $%s in A. The wealth distribution in B became %s unequal over time.",
					humanize.CommafWithDigits(last.AvgWealthB, 2),
					humanize.CommafWithDigits(last.AvgWealthA, 2),
					moreOrLess(inequalityChange > 0)),
			},
			EqualityMeasures: Finding{
				Summary: fmt.Sprintf("Wealth inequality in B %s by %.1f%% (absolute Gini change). Gini moved from %.3f to %.3f (vs %.3f in A).",
					decreaseVerb(inequalityChange), abs(inequalityChange)*100,
					first.GiniB, last.GiniB, last.GiniA),
				Details: fmt.Sprintf(
					"The poorest 20%% share of total wealth in B changed from %.1f%% to %.1f%%. The wealth gap (Top 20%% / Bottom 20%%) finished at %s in B (vs %s in A).",
					first.Bottom20PctShare*100, last.Bottom20PctShare*100,
					formatGap(last.WealthGapB), formatGap(last.WealthGapA)),
			},
			CommunityHealth: Finding{
				Summary: fmt.Sprintf("Poverty rate in B %s, finishing at %.1f%% (vs %.1f%% in A).",
					povertyTrend, last.PovertyRateB*100, last.PovertyRateA*100),
				Details: fmt.Sprintf(
					"Community resilience index in B finished at %.2f; economic health indicators suggest Scenario B fostered %s in resilience.",
					last.CommunityResilience,
					improvementWord(last.CommunityResilience > first.CommunityResilience)),
			},
		},
		PhaseAnalysis: analyzePhases(history),
		KeyEvents:     eventLines,
		Conclusion:    buildConclusion(history),
	}
}

// analyzePhases splits the run into thirds and characterizes each by its
// Scenario B wealth growth. Runs shorter than 9 weeks skip phase analysis.
func analyzePhases(history []metrics.WeeklySnapshot) []Phase {
	if len(history) < 9 {
		return nil
	}
	third := len(history) / 3
	bounds := [][2]int{
		{0, third},
		{third, 2 * third},
		{2 * third, len(history)},
	}
	names := []string{"Initial Phase", "Development Phase", "Maturity Phase"}

	phases := make([]Phase, 0, 3)
	growths := make([]float64, 0, 3)
	for i, b := range bounds {
		startM := history[b[0]]
		endM := history[b[1]-1]

		growth := 0.0
		if startM.TotalWealthB > 1e-6 {
			growth = (endM.TotalWealthB - startM.TotalWealthB) / startM.TotalWealthB
		}

		var character string
		switch i {
		case 0:
			switch {
			case abs(growth) < 0.05:
				character = "Adaptation"
			case growth > 0.1:
				character = "Rapid Growth"
			default:
				character = "Steady Growth"
			}
		case 1:
			switch {
			case growth < growths[0]:
				character = "Consolidation"
			case growth > growths[0]:
				character = "Acceleration"
			default:
				character = "Stabilization"
			}
		default:
			switch {
			case abs(growth) < 0.03:
				character = "Maturity"
			case growth > 0:
				character = "Continued Growth"
			default:
				character = "Contraction"
			}
		}
		growths = append(growths, growth)

		phases = append(phases, Phase{
			Period:          fmt.Sprintf("Weeks %d-%d", b[0]+1, b[1]),
			Type:            names[i],
			Characteristics: fmt.Sprintf("%s (Wealth Change: %+.1f%%)", character, growth*100),
			Metrics: map[string]string{
				"avg_wealth":   "$" + humanize.CommafWithDigits(endM.AvgWealthB, 2),
				"poverty_rate": fmt.Sprintf("%.1f%%", endM.PovertyRateB*100),
				"gini":         fmt.Sprintf("%.3f", endM.GiniB),
			},
		})
	}
	return phases
}

func buildConclusion(history []metrics.WeeklySnapshot) string {
	first := history[0]
	last := history[len(history)-1]

	wealthChangeB := 0.0
	if first.TotalWealthB > 1e-6 {
		wealthChangeB = (last.TotalWealthB - first.TotalWealthB) / first.TotalWealthB
	}
	inequalityChangeB := last.GiniB - first.GiniB
	povertyChangeB := last.PovertyRateB - first.PovertyRateB
	resilienceChangeB := last.CommunityResilience - first.CommunityResilience
	finalWealthDiff := last.TotalWealthB - last.TotalWealthA
	finalGiniDiff := last.GiniB - last.GiniA

	var success string
	switch {
	case wealthChangeB > 0.1 && povertyChangeB < 0:
		success = "successful"
	case wealthChangeB >= 0 && povertyChangeB <= 0:
		success = "moderately successful"
	default:
		success = "challenging"
	}

	var equity string
	switch {
	case inequalityChangeB < -0.02:
		equity = "more equitable"
	case inequalityChangeB < 0:
		equity = "slightly more equitable"
	case inequalityChangeB > 0.02:
		equity = "less equitable"
	default:
		equity = "equity neutral"
	}

	var resilience string
	switch {
	case resilienceChangeB > 0.05:
		resilience = "more resilient"
	case resilienceChangeB < -0.05:
		resilience = "less resilient"
	default:
		resilience = "resilience neutral"
	}

	conclusion := fmt.Sprintf(
		"The simulation suggests a %s outcome for the Cooperative Model (Scenario B) over %d weeks. Compared to its starting point, the community became %s and potentially %s. ",
		success, len(history), equity, resilience)

	if finalWealthDiff > 0 {
		conclusion += fmt.Sprintf("Crucially, Scenario B ended with $%s more total wealth than Scenario A (Existing System). ",
			humanize.CommafWithDigits(finalWealthDiff, 2))
	} else {
		conclusion += fmt.Sprintf("However, Scenario B ended with $%s less total wealth than Scenario A. ",
			humanize.CommafWithDigits(-finalWealthDiff, 2))
	}

	switch {
	case finalGiniDiff < -0.01:
		conclusion += fmt.Sprintf("Scenario B also demonstrated lower final inequality (Gini diff: %.3f). ", finalGiniDiff)
	case finalGiniDiff > 0.01:
		conclusion += fmt.Sprintf("However, Scenario B showed higher final inequality (Gini diff: %.3f). ", finalGiniDiff)
	default:
		conclusion += "Final inequality levels were similar between scenarios. "
	}

	conclusion += "These results highlight the potential benefits (or drawbacks) of the cooperative model under the simulated parameters, particularly regarding wealth retention and distribution."
	return conclusion
}

func formatGap(gap *float64) string {
	if gap == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1fx", *gap)
}

func growthVerb(change float64) string {
	if change > 0 {
		return "grew"
	}
	return "declined"
}

func decreaseVerb(change float64) string {
	if change < 0 {
		return "decreased"
	}
	return "increased"
}

func moreOrLess(more bool) string {
	if more {
		return "more"
	}
	return "less"
}

func improvementWord(improved bool) string {
	if improved {
		return "improvement"
	}
	return "challenges"
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
