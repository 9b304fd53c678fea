// Pricing: one linear supply/demand closed form per good per tick.
package engine

import (
	"math"

	"github.com/talgya/mini-market/internal/economy"
)

const (
	// demandInterceptScale converts per-tick consumption into the demand intercept.
	demandInterceptScale = 10.0
	// supplyIntercept is the enforced production minimum; there is none.
	supplyIntercept = 0.0
	// priceRecovery is added to a non-positive solved price.
	priceRecovery = 0.2
)

// Equilibrium is the solved market-clearing state of one good.
type Equilibrium struct {
	DemandSum       float64
	DemandIntercept float64
	SupplySum       float64
	Price           float64
	Solved          bool // False when the system was singular
}

// SolveEquilibrium solves supplySum×P = demandSum×P + (demandIntercept − supplyIntercept)
// for P and scales it by the good's original cost.
func SolveEquilibrium(m *economy.Market, g economy.Good) Equilibrium {
	var eq Equilibrium
	for _, a := range m.Agents {
		if p := a.Priority(g); p != nil {
			eq.DemandSum += p.Elasticity
		}
		if c, ok := a.Consumption[g]; ok {
			eq.DemandIntercept += demandInterceptScale * c.Rate
		}
		eq.SupplySum += a.Profession.SupplyElasticity
	}

	denom := eq.SupplySum - eq.DemandSum
	if denom == 0 {
		return eq
	}
	price := (eq.DemandIntercept - supplyIntercept) / denom * m.Prices[g].OriginalCost()
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return eq
	}
	eq.Price = price
	eq.Solved = true
	return eq
}

// Price runs the pricing stage. A singular solve keeps the previous
// equilibrium cost. The current cost is replaced by the equilibrium cost.
func Price(m *economy.Market) {
	for _, g := range m.Registry.Goods() {
		eq := SolveEquilibrium(m, g)
		p := &m.Prices[g]
		if eq.Solved {
			p.EquilibriumCost = eq.Price
		}
		if p.EquilibriumCost <= 0 {
			p.EquilibriumCost += priceRecovery
		}
		p.Cost = p.EquilibriumCost
	}
}
