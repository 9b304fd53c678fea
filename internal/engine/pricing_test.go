package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-market/internal/economy"
)

// singleGoodMarket is one agent trading one good with original cost 3.
func singleGoodMarket(t *testing.T, rate, elasticity, supply float64) *economy.Market {
	t.Helper()
	r, err := economy.NewRegistry([]string{"Grain"}, []economy.JobOutput{{Job: "Farmer", Good: "Grain"}})
	require.NoError(t, err)

	a := &economy.Agent{
		ID:         1,
		Inventory:  economy.Inventory{0},
		Priorities: []economy.Priority{economy.NewPriority(0, 1, 1, 1, elasticity)},
		Consumption: map[economy.Good]*economy.ConsumptionProfile{
			0: {Rate: rate},
		},
		Profession: economy.Profession{Job: 0, SkillLevel: 1, ShortRunProduction: 1, SupplyElasticity: supply},
	}
	prices := []economy.Price{economy.NewPrice(1, 2.5, 3)}
	return economy.NewMarket(r, []*economy.Agent{a}, economy.Inventory{0}, prices, 0)
}

func TestSolveEquilibriumClosedForm(t *testing.T) {
	m := singleGoodMarket(t, 0.5, -0.4, 0.7)

	eq := SolveEquilibrium(m, 0)

	require.True(t, eq.Solved)
	assert.InDelta(t, 5.0, eq.DemandIntercept, 1e-12)
	assert.InDelta(t, -0.4, eq.DemandSum, 1e-12)
	assert.InDelta(t, 0.7, eq.SupplySum, 1e-12)
	// 5 / (0.7 + 0.4) × 3
	assert.InDelta(t, 13.636363, eq.Price, 1e-5)

	Price(m)
	assert.InDelta(t, 13.636363, m.Prices[0].Cost, 1e-5)
	assert.Equal(t, m.Prices[0].EquilibriumCost, m.Prices[0].Cost)
	assert.Equal(t, 3.0, m.Prices[0].OriginalCost(), "original cost never changes")
}

func TestPriceSingularKeepsPreviousEquilibrium(t *testing.T) {
	m := singleGoodMarket(t, 0.5, 0.5, 0.5)

	eq := SolveEquilibrium(m, 0)
	assert.False(t, eq.Solved)

	Price(m)
	assert.Equal(t, 2.5, m.Prices[0].EquilibriumCost)
	assert.Equal(t, 2.5, m.Prices[0].Cost)
}

func TestPriceRecoversFromZero(t *testing.T) {
	m := singleGoodMarket(t, 0, -0.4, 0.7)

	Price(m)

	assert.InDelta(t, priceRecovery, m.Prices[0].EquilibriumCost, 1e-12, "recovery lifts the solved equilibrium")
	assert.Equal(t, m.Prices[0].EquilibriumCost, m.Prices[0].Cost, "cost follows the equilibrium, not the previous cost")
	assert.Greater(t, m.Prices[0].Cost, 0.0)
}

func TestSupplySumCountsEveryAgent(t *testing.T) {
	a := newTestAgent(1, fisherman, 0)
	b := newTestAgent(2, lumberjack, 0)
	m := newTestMarket(t, 0, economy.Inventory{0, 0}, a, b)

	eq := SolveEquilibrium(m, fish)

	assert.InDelta(t, 1.4, eq.SupplySum, 1e-12)
	assert.InDelta(t, -1.0, eq.DemandSum, 1e-12)
	assert.InDelta(t, 7.0, eq.DemandIntercept, 1e-12)
	assert.InDelta(t, 7.0/2.4*2, eq.Price, 1e-9)
}
