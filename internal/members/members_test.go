package members

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/coopsim/internal/params"
	"github.com/talgya/coopsim/internal/sampler"
)

func TestInitializeClonesIdenticalMeans(t *testing.T) {
	p := params.Default()
	p.NumMembers = 30

	popA, popB, err := Initialize(p, sampler.New(p.Seed))
	require.NoError(t, err)
	require.Len(t, popA, 30)
	require.Len(t, popB, 30)

	for i := range popA {
		a, b := popA[i], popB[i]
		assert.Equal(t, a.ID, b.ID)
		assert.Equal(t, a.InitialWealth, b.InitialWealth)
		assert.Equal(t, a.IncomeMean, b.IncomeMean)
		assert.Equal(t, a.BudgetMean, b.BudgetMean)
		assert.Equal(t, a.InternalSpendMean, b.InternalSpendMean)
		assert.Equal(t, a.Wealth, b.Wealth)

		// Only the cooperative ledger starts funded.
		assert.Zero(t, a.USDBalance)
		assert.Equal(t, b.InitialWealth, b.USDBalance)
	}
}

func TestInitializeDistinctObjects(t *testing.T) {
	p := params.Default()
	p.NumMembers = 10

	popA, popB, err := Initialize(p, sampler.New(1))
	require.NoError(t, err)

	popA[0].Wealth = 12345
	assert.NotEqual(t, popA[0].Wealth, popB[0].Wealth)
}

func TestInitializeRejectsTinyPopulation(t *testing.T) {
	p := params.Default()
	p.NumMembers = 5

	_, _, err := Initialize(p, sampler.New(1))

	var cfgErr *params.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "NUM_MEMBERS", cfgErr.Field)
}

func TestInitializePropensityWithinUnit(t *testing.T) {
	p := params.Default()
	p.NumMembers = 200
	p.PercentSpendInternalStdDev = 0.5

	popA, _, err := Initialize(p, sampler.New(3))
	require.NoError(t, err)

	for _, m := range popA {
		assert.GreaterOrEqual(t, m.InternalSpendMean, 0.0)
		assert.LessOrEqual(t, m.InternalSpendMean, 1.0)
	}
}

func TestTotalWealth(t *testing.T) {
	pop := []*Member{{Wealth: 10}, {Wealth: 20.5}}
	assert.InDelta(t, 30.5, TotalWealth(pop), 1e-9)
}
