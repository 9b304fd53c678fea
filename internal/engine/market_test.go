package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/entropy"
)

func TestPurchaseBuysOneUnit(t *testing.T) {
	a := newTestAgent(1, lumberjack, 10)
	m := newTestMarket(t, 100, economy.Inventory{5, 5}, a)
	Prioritize(m)

	bought := Purchase(m, entropy.New(1))

	require.Equal(t, 1, bought)
	spent := 10 - a.Money
	assert.True(t, spent == 2 || spent == 3, "paid one unit of fish or lumber, got %v", spent)
	assert.Equal(t, 100+spent, m.Money)
	assert.Equal(t, 1.0, a.Inventory[fish]+a.Inventory[lumber])
	assert.Equal(t, 9.0, m.Inventory[fish]+m.Inventory[lumber])
}

func TestPurchaseConservesMoneyAndGoods(t *testing.T) {
	agents := []*economy.Agent{
		newTestAgent(1, fisherman, 10),
		newTestAgent(2, lumberjack, 10),
		newTestAgent(3, lumberjack, 1),
	}
	m := newTestMarket(t, 50, economy.Inventory{2, 1}, agents...)
	rng := entropy.New(5)

	for tick := 0; tick < 20; tick++ {
		Prioritize(m)
		before := m.Money + m.AgentMoney()
		stock := m.Inventory[fish] + m.Inventory[lumber]
		held := 0.0
		for _, a := range m.Agents {
			held += a.Inventory[fish] + a.Inventory[lumber]
		}

		bought := Purchase(m, rng)

		assert.LessOrEqual(t, bought, len(agents))
		assert.InDelta(t, before, m.Money+m.AgentMoney(), 1e-9)
		assert.InDelta(t, stock-float64(bought), m.Inventory[fish]+m.Inventory[lumber], 1e-9)
		after := 0.0
		for _, a := range m.Agents {
			after += a.Inventory[fish] + a.Inventory[lumber]
			assert.GreaterOrEqual(t, a.Money, 0.0)
		}
		assert.InDelta(t, held+float64(bought), after, 1e-9)
		assert.GreaterOrEqual(t, m.Inventory[fish], 0.0)
		assert.GreaterOrEqual(t, m.Inventory[lumber], 0.0)
	}
}

func TestPurchaseUnaffordable(t *testing.T) {
	buyer := newTestAgent(1, lumberjack, 0)
	buyer.Priorities = buyer.Priorities[:1] // Fish only
	m := newTestMarket(t, 0, economy.Inventory{5, 5},
		buyer, newTestAgent(2, fisherman, 0), newTestAgent(3, lumberjack, 0))
	Prioritize(m)

	g, outcome := purchaseOne(m, buyer, entropy.New(1))

	assert.Equal(t, Exhausted, outcome)
	assert.Equal(t, economy.Good(0), g)
	// Two agents do not produce fish.
	assert.InDelta(t, -0.2, buyer.Satisfaction, 1e-12)
	assert.Equal(t, 5.0, m.Inventory[fish])
}

func TestPurchaseOutOfStock(t *testing.T) {
	buyer := newTestAgent(1, lumberjack, 10)
	buyer.Priorities = buyer.Priorities[:1]
	m := newTestMarket(t, 0, economy.Inventory{0.5, 5},
		buyer, newTestAgent(2, fisherman, 0), newTestAgent(3, lumberjack, 0))
	Prioritize(m)

	_, outcome := purchaseOne(m, buyer, entropy.New(1))

	assert.Equal(t, Exhausted, outcome)
	assert.InDelta(t, -2.0, buyer.Satisfaction, 1e-12)
	assert.Equal(t, 10.0, buyer.Money)
}

func TestPurchaseHoldsMoneyForWorthlessGoods(t *testing.T) {
	buyer := newTestAgent(1, lumberjack, 10)
	m := newTestMarket(t, 0, economy.Inventory{5, 5}, buyer)
	buyer.Priorities[0].Weight = 0.3
	buyer.Priorities[1].Weight = 0

	_, outcome := purchaseOne(m, buyer, entropy.New(1))

	assert.Equal(t, Exhausted, outcome)
	assert.Equal(t, 10.0, buyer.Money)
	assert.Equal(t, 0.0, buyer.Satisfaction, "declining to buy is not penalized")
}

func TestPurchaseFallsThroughToNextCandidate(t *testing.T) {
	buyer := newTestAgent(1, lumberjack, 10)
	m := newTestMarket(t, 0, economy.Inventory{0, 5}, buyer, newTestAgent(2, fisherman, 0))
	buyer.Priorities[0].Weight = 1000
	buyer.Priorities[1].Weight = 1

	g, outcome := purchaseOne(m, buyer, entropy.New(1))

	require.Equal(t, Purchased, outcome)
	assert.Equal(t, lumber, g)
	assert.InDelta(t, -1.0, buyer.Satisfaction, 1e-12, "fish was out of stock first")
	assert.Equal(t, 7.0, buyer.Money)
}
