package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-market/internal/economy"
)

const (
	fish   economy.Good = 0
	lumber economy.Good = 1

	fisherman  economy.Job = 0
	lumberjack economy.Job = 1
)

// newTestMarket builds a Fish/Lumber market with the given agents, both goods
// priced at their original cost.
func newTestMarket(t *testing.T, money float64, stock economy.Inventory, agents ...*economy.Agent) *economy.Market {
	t.Helper()
	r, err := economy.NewRegistry(
		[]string{"Fish", "Lumber"},
		[]economy.JobOutput{{Job: "Fisherman", Good: "Fish"}, {Job: "Lumberjack", Good: "Lumber"}},
	)
	require.NoError(t, err)
	prices := []economy.Price{economy.NewPrice(2, 2, 2), economy.NewPrice(3, 3, 3)}
	return economy.NewMarket(r, agents, stock, prices, money)
}

// newTestAgent creates an agent consuming both goods with neutral priorities.
func newTestAgent(id economy.AgentID, job economy.Job, money float64) *economy.Agent {
	return &economy.Agent{
		ID:        id,
		Inventory: economy.Inventory{0, 0},
		Priorities: []economy.Priority{
			economy.NewPriority(fish, 7, 1, 1, -0.5),
			economy.NewPriority(lumber, 3, 1, 1, -1.2),
		},
		Consumption: map[economy.Good]*economy.ConsumptionProfile{
			fish:   {Rate: 0.35},
			lumber: {Rate: 0.15},
		},
		Profession: economy.NoviceProfession(job),
		Money:      money,
	}
}
