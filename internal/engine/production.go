// Production: agents turn labor into goods and are paid from the market pool.
package engine

import (
	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/entropy"
)

// productionNoise is the standard deviation of the overproduction variance draw.
const productionNoise = 0.07

// Produce runs the production stage for every agent.
func Produce(m *economy.Market, rng *entropy.Source) {
	for _, a := range m.Agents {
		produceOne(m, a, rng)
	}
}

// produceOne has a single agent produce its good, scaled down when last
// tick's aggregate production overshot consumption. Delivery and payment
// happen together, and only if the pool can pay for the whole output.
func produceOne(m *economy.Market, a *economy.Agent, rng *entropy.Source) {
	good := m.OutputOf(a)
	produced := productionAmount(m, a, good, rng)
	a.Profession = a.Profession.WithShortRun(produced)

	payment := produced * m.Prices[good].Cost
	if m.Money < payment {
		return
	}
	m.Money -= payment
	a.Money += payment
	m.Inventory[good] += produced
}

// productionAmount returns how much an agent produces this tick.
func productionAmount(m *economy.Market, a *economy.Agent, good economy.Good, rng *entropy.Source) float64 {
	skill := a.Profession.SkillLevel
	diff := m.Difference[good]
	if diff <= 0 || m.Production[good] <= 0 {
		return skill
	}

	overproduction := diff / m.Production[good]
	variance := rng.Normal(0, productionNoise)
	produced := skill * (1 - (overproduction + variance))
	if produced < 0 {
		produced = 0
	}
	return produced
}
