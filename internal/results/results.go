// Package results assembles the outward-facing response for a completed run:
// weekly history, per-member final states, key events, narrative summary, and
// the analytical cross-check.
package results

import (
	"time"

	"github.com/google/uuid"

	"github.com/talgya/coopsim/internal/engine"
	"github.com/talgya/coopsim/internal/metrics"
	"github.com/talgya/coopsim/internal/validate"
)

// FinalMember pairs one member's end state across both scenarios.
type FinalMember struct {
	ID       string  `json:"ID"`
	Income   float64 `json:"Income"`
	Budget   float64 `json:"Budget"`
	WealthA  float64 `json:"Wealth_A"`
	WealthB  float64 `json:"Wealth_B"`
	FoodUSDB float64 `json:"FoodUSD_B"`
	GroToken float64 `json:"GroToken_B"`
	SavingsB float64 `json:"Savings_B"`
}

// SimulationResults is the full response contract for one run.
type SimulationResults struct {
	RunID        uuid.UUID                `json:"run_id"`
	CreatedAt    time.Time                `json:"created_at"`
	History      []metrics.WeeklySnapshot `json:"history"`
	FinalMembers []FinalMember            `json:"final_members"`
	KeyEvents    []engine.KeyEvent        `json:"key_events"`
	Summary      Summary                  `json:"summary"`
	Validation   validate.Result          `json:"validation"`
	Recovery     *metrics.RecoveryResult  `json:"recovery,omitempty"`
	ElapsedMS    int64                    `json:"elapsed_ms"`
}

// Assemble turns raw run output into the response contract, including the
// analytical cross-check against the run's final week.
func Assemble(out *engine.RunOutput) *SimulationResults {
	final := out.History[len(out.History)-1]
	actualDiff := final.TotalWealthB - final.TotalWealthA

	finalMembers := make([]FinalMember, len(out.FinalA))
	for i, a := range out.FinalA {
		b := out.FinalB[i]
		finalMembers[i] = FinalMember{
			ID:       a.ID,
			Income:   a.IncomeMean,
			Budget:   a.BudgetMean,
			WealthA:  a.Wealth,
			WealthB:  b.Wealth,
			FoodUSDB: b.USDBalance,
			GroToken: b.TokenBalance,
			SavingsB: b.CumulativeSavings,
		}
	}

	return &SimulationResults{
		RunID:        uuid.New(),
		CreatedAt:    time.Now().UTC(),
		History:      out.History,
		FinalMembers: finalMembers,
		KeyEvents:    out.KeyEvents,
		Summary:      BuildSummary(out.History, out.KeyEvents),
		Validation:   validate.Evaluate(out.Params, actualDiff, final.GiniA, final.GiniB),
		Recovery:     out.Recovery,
		ElapsedMS:    out.Elapsed.Milliseconds(),
	}
}
