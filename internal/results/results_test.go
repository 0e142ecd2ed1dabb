package results

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/coopsim/internal/engine"
	"github.com/talgya/coopsim/internal/params"
)

func smallRun(t *testing.T) *engine.RunOutput {
	t.Helper()
	p := params.Default()
	p.NumMembers = 20
	p.SimulationWeeks = 24

	orch, err := engine.New(p, nil)
	require.NoError(t, err)
	out, err := orch.Run(context.Background())
	require.NoError(t, err)
	return out
}

func TestAssembleFullContract(t *testing.T) {
	out := smallRun(t)
	res := Assemble(out)

	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.False(t, res.CreatedAt.IsZero())
	assert.Len(t, res.History, 24)
	assert.Len(t, res.FinalMembers, 20)
	assert.GreaterOrEqual(t, res.ElapsedMS, int64(0))

	final := res.History[len(res.History)-1]
	assert.InDelta(t, final.TotalWealthB-final.TotalWealthA,
		res.Validation.ActualDifference, 1e-9)

	for i, fm := range res.FinalMembers {
		assert.Equal(t, out.FinalA[i].ID, fm.ID)
		assert.Equal(t, out.FinalA[i].Wealth, fm.WealthA)
		assert.Equal(t, out.FinalB[i].Wealth, fm.WealthB)
		assert.InDelta(t, fm.FoodUSDB+fm.GroToken*params.Default().GrotokenUSDValue,
			fm.WealthB, 1e-6)
	}
}

func TestSummaryStructure(t *testing.T) {
	out := smallRun(t)
	sum := BuildSummary(out.History, out.KeyEvents)

	assert.Equal(t, "Economic System Evolution Analysis", sum.Title)
	assert.Contains(t, sum.Overview, "24 weeks")
	assert.NotEmpty(t, sum.KeyFindings.WealthImpact.Summary)
	assert.NotEmpty(t, sum.KeyFindings.EqualityMeasures.Details)
	assert.NotEmpty(t, sum.KeyFindings.CommunityHealth.Summary)
	assert.NotEmpty(t, sum.Conclusion)
	assert.NotEmpty(t, sum.KeyEvents)

	require.Len(t, sum.PhaseAnalysis, 3)
	assert.Equal(t, "Initial Phase", sum.PhaseAnalysis[0].Type)
	assert.Equal(t, "Weeks 1-8", sum.PhaseAnalysis[0].Period)
	assert.Equal(t, "Maturity Phase", sum.PhaseAnalysis[2].Type)
	assert.Contains(t, sum.PhaseAnalysis[1].Metrics, "gini")
}

func TestSummaryEmptyHistory(t *testing.T) {
	sum := BuildSummary(nil, nil)
	assert.Equal(t, "Error", sum.Title)
}

func TestShortRunSkipsPhaseAnalysis(t *testing.T) {
	out := smallRun(t)
	sum := BuildSummary(out.History[:8], nil)

	assert.Empty(t, sum.PhaseAnalysis)
	assert.Equal(t, []string{"No significant key events detected."}, sum.KeyEvents)
}
