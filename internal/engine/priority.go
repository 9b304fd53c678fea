// Demand priorities: each agent re-weighs every good from price, scarcity
// memory, and how much it already holds.
package engine

import (
	"math"

	"github.com/talgya/mini-market/internal/economy"
)

const (
	// unmetElasticityScale controls how fast unmet need makes demand inelastic.
	unmetElasticityScale = 0.1
	// satiationMultiple is how many ticks of consumption an agent holds before
	// marginal utility starts falling.
	satiationMultiple = 5.0
)

// Prioritize recomputes every agent's priority weights.
func Prioritize(m *economy.Market) {
	for _, a := range m.Agents {
		for i := range a.Priorities {
			p := &a.Priorities[i]
			reweigh(m, a, p, a.Consumption[p.Good])
		}
	}
}

// reweigh updates one priority record in place. c may be nil for a good the
// agent does not consume.
func reweigh(m *economy.Market, a *economy.Agent, p *economy.Priority, c *economy.ConsumptionProfile) {
	consumption := 0.0
	unmet := 0.0
	if c != nil {
		consumption = c.Rate
		unmet = c.Outstanding()
	}

	p.Elasticity = dynamicElasticity(p.OriginalElasticity(), unmet, consumption)

	price := m.Prices[p.Good]
	relativeCost := 0.0
	if price.EquilibriumCost != 0 {
		relativeCost = (price.Cost - price.EquilibriumCost) / price.EquilibriumCost * 100
	}
	demandResponse := relativeCost * p.Elasticity

	dmu := marginalUtility(a.Inventory[p.Good], consumption)

	p.RelativeNeed = 100 * consumption * (1 + demandResponse/100) * (1 + dmu/100)
	p.Weight = p.BaseWeight*p.RelativeNeed + p.ScarcityModifier
	if p.Weight < 0 {
		p.Weight = 0
	}
}

// dynamicElasticity moves the original elasticity toward zero as unmet need
// accumulates. With no unmet need it equals the original.
func dynamicElasticity(original, unmet, consumption float64) float64 {
	ratio := 0.0
	if consumption > 0 {
		ratio = unmet / consumption
	}
	if original == 0 {
		return 0
	}
	return -1 / (unmetElasticityScale*ratio + 1/math.Abs(original))
}

// marginalUtility is negative once the agent holds more than the satiation
// stock, and neutral (1) otherwise.
func marginalUtility(held, consumption float64) float64 {
	satiation := satiationMultiple * consumption
	if consumption <= 0 || held <= satiation {
		return 1
	}
	return -100 * (held - satiation) / satiation
}
