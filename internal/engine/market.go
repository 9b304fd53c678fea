// Market purchases: each agent buys at most one unit per tick, chosen by
// weighted random pick over its priorities.
package engine

import (
	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/entropy"
)

const (
	// holdMoneyThreshold is the weight below which an agent prefers saving.
	holdMoneyThreshold = 0.5
	// Satisfaction penalties, applied once per agent not producing the good.
	unaffordablePenalty = 0.1
	outOfStockPenalty   = 1.0
)

// PurchaseOutcome describes how an agent's purchase phase ended.
type PurchaseOutcome uint8

const (
	Exhausted PurchaseOutcome = iota // Candidate pool emptied, nothing bought
	Purchased                        // Exactly one unit bought
)

// candidate is one entry of an agent's purchase pool.
type candidate struct {
	good   economy.Good
	weight int
}

// Purchase runs the purchase stage. Agents are processed in order and each
// commit is visible to every agent processed after it.
func Purchase(m *economy.Market, rng *entropy.Source) int {
	bought := 0
	for _, a := range m.Agents {
		if _, outcome := purchaseOne(m, a, rng); outcome == Purchased {
			bought++
		}
	}
	return bought
}

// purchaseOne runs the select → validate → commit/evict loop for one agent.
func purchaseOne(m *economy.Market, a *economy.Agent, rng *entropy.Source) (economy.Good, PurchaseOutcome) {
	pool := make([]candidate, 0, len(a.Priorities))
	for _, p := range a.Priorities {
		pool = append(pool, candidate{good: p.Good, weight: int(p.Weight)})
	}

	weights := make([]int, 0, len(pool))
	for len(pool) > 0 {
		weights = weights[:0]
		for _, c := range pool {
			weights = append(weights, c.weight)
		}
		idx := rng.WeightedPick(weights)
		c := pool[idx]
		price := m.Prices[c.good].Cost

		switch {
		case a.Money < price:
			a.Satisfaction -= unaffordablePenalty * float64(m.CountNotProducing(c.good))
		case m.Inventory[c.good] < 1:
			a.Satisfaction -= outOfStockPenalty * float64(m.CountNotProducing(c.good))
		case float64(c.weight) < holdMoneyThreshold:
			// Not worth spending on; keep the money.
		default:
			commitPurchase(m, a, c.good, price)
			return c.good, Purchased
		}

		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return 0, Exhausted
}

// commitPurchase moves one unit to the agent and the price to the pool.
func commitPurchase(m *economy.Market, a *economy.Agent, g economy.Good, price float64) {
	a.Money -= price
	m.Money += price
	m.Inventory[g]--
	a.Inventory[g]++
}
