// Consumption: agents draw down inventory and remember what they went without.
package engine

import "github.com/talgya/mini-market/internal/economy"

const (
	// scarcityReinforce scales relative need into the scarcity modifier after a shortfall.
	scarcityReinforce = 1.5
	// scarcityMemory is how much of the previous modifier survives a new shortfall.
	scarcityMemory = 0.1
	// neutralModifier is the scarcity modifier of a well-stocked agent.
	neutralModifier = 1.0
)

// Consume runs the consumption stage for every agent.
func Consume(m *economy.Market) {
	for _, a := range m.Agents {
		consumeOne(m, a)
	}
}

func consumeOne(m *economy.Market, a *economy.Agent) {
	for _, g := range m.Registry.Goods() {
		c, ok := a.Consumption[g]
		if !ok {
			continue
		}
		c.AgeUnmet()

		a.Inventory[g] -= c.Rate
		p := a.Priority(g)

		if a.Inventory[g] < 0 {
			shortfall := -a.Inventory[g]
			a.Inventory[g] = 0
			c.Remember(shortfall)
			if p != nil {
				p.ScarcityModifier = p.RelativeNeed*scarcityReinforce + scarcityMemory*p.ScarcityModifier
			}
		}

		if a.Inventory[g] >= 1 && p != nil {
			p.ScarcityModifier = neutralModifier
		}
	}
}
