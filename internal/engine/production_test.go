package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/entropy"
)

func TestProduceFullOutputWithoutSurplus(t *testing.T) {
	a := newTestAgent(1, fisherman, 0)
	a.Profession.SkillLevel = 2
	m := newTestMarket(t, 100, economy.Inventory{0, 0}, a)

	Produce(m, entropy.New(1))

	assert.Equal(t, 2.0, a.Profession.ShortRunProduction)
	assert.Equal(t, 2.0, m.Inventory[fish])
	assert.Equal(t, 4.0, a.Money, "paid produced × cost")
	assert.Equal(t, 96.0, m.Money)
}

func TestProduceLiquidityGate(t *testing.T) {
	a := newTestAgent(1, lumberjack, 1)
	m := newTestMarket(t, 2.5, economy.Inventory{0, 0}, a)

	Produce(m, entropy.New(1))

	// Output is recorded even though the pool cannot pay for it.
	assert.Equal(t, 1.0, a.Profession.ShortRunProduction)
	assert.Equal(t, 0.0, m.Inventory[lumber])
	assert.Equal(t, 1.0, a.Money)
	assert.Equal(t, 2.5, m.Money)
}

func TestProduceScalesDownOverproduction(t *testing.T) {
	a := newTestAgent(1, fisherman, 0)
	m := newTestMarket(t, 100, economy.Inventory{0, 0}, a)
	m.Production[fish] = 4
	m.Difference[fish] = 2

	Produce(m, entropy.New(9))

	// skill × (1 − (0.5 + N(0, 0.07)))
	assert.InDelta(t, 0.5, a.Profession.ShortRunProduction, 0.4)
	assert.InDelta(t, a.Profession.ShortRunProduction, m.Inventory[fish], 1e-12)
}

func TestProduceNeverNegative(t *testing.T) {
	a := newTestAgent(1, fisherman, 0)
	m := newTestMarket(t, 100, economy.Inventory{0, 0}, a)
	m.Production[fish] = 1
	m.Difference[fish] = 5

	for i := 0; i < 50; i++ {
		Produce(m, entropy.New(int64(i+1)))
		assert.GreaterOrEqual(t, a.Profession.ShortRunProduction, 0.0)
	}
	assert.Equal(t, 0.0, m.Inventory[fish])
}
