package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-market/internal/economy"
)

func TestConsumeShortfall(t *testing.T) {
	a := newTestAgent(1, fisherman, 0)
	a.Inventory = economy.Inventory{0.05, 3}
	m := newTestMarket(t, 0, economy.Inventory{0, 0}, a)

	Consume(m)

	assert.Equal(t, 0.0, a.Inventory[fish], "inventory clamps at zero")
	require.Len(t, a.Consumption[fish].Unmet, 1)
	assert.InDelta(t, 0.3, a.Consumption[fish].Unmet[0].Magnitude, 1e-9)
	// relativeNeed × 1.5 + 0.1 × previous modifier
	assert.InDelta(t, 1.6, a.Priority(fish).ScarcityModifier, 1e-9)

	assert.InDelta(t, 2.85, a.Inventory[lumber], 1e-9)
	assert.Empty(t, a.Consumption[lumber].Unmet)
	assert.Equal(t, 1.0, a.Priority(lumber).ScarcityModifier)
}

func TestConsumeNoiseShortfallNotRemembered(t *testing.T) {
	a := newTestAgent(1, fisherman, 0)
	a.Inventory = economy.Inventory{0.345, 0}
	m := newTestMarket(t, 0, economy.Inventory{0, 0}, a)

	Consume(m)

	assert.Empty(t, a.Consumption[fish].Unmet)
	assert.InDelta(t, 1.6, a.Priority(fish).ScarcityModifier, 1e-9, "modifier still reinforced")
}

func TestConsumeResetsModifierWhenStocked(t *testing.T) {
	a := newTestAgent(1, fisherman, 0)
	m := newTestMarket(t, 0, economy.Inventory{0, 0}, a)

	Consume(m)
	require.Greater(t, a.Priority(fish).ScarcityModifier, 1.0)

	a.Inventory[fish] = 5
	Consume(m)
	assert.Equal(t, 1.0, a.Priority(fish).ScarcityModifier)
	// The first shortfall has aged one tick.
	require.Len(t, a.Consumption[fish].Unmet, 1)
	assert.Equal(t, 1, a.Consumption[fish].Unmet[0].Age)
}

func TestConsumeSkipsUnconsumedGoods(t *testing.T) {
	a := newTestAgent(1, fisherman, 0)
	delete(a.Consumption, lumber)
	a.Inventory = economy.Inventory{1, 0}
	m := newTestMarket(t, 0, economy.Inventory{0, 0}, a)

	Consume(m)

	assert.Equal(t, 0.0, a.Inventory[lumber])
	assert.Equal(t, 1.0, a.Priority(lumber).ScarcityModifier)
}
