package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/engine"
	"github.com/talgya/mini-market/internal/entropy"
	"github.com/talgya/mini-market/internal/population"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "market.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestSimulation(t *testing.T) *engine.Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.ApplyDefaults()
	m, err := population.Build(cfg, cfg.Seed)
	require.NoError(t, err)
	return engine.NewSimulation(m, entropy.New(cfg.Seed))
}

func TestRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	first, err := db.BeginRun(1, "seed: 1")
	require.NoError(t, err)
	second, err := db.BeginRun(2, "seed: 2")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, int64(1), runs[1].Seed)

	latest, err := db.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)
	assert.Equal(t, "seed: 2", latest.Scenario)
}

func TestSaveStateHistory(t *testing.T) {
	db := openTestDB(t)
	sim := newTestSimulation(t)

	runID, err := db.BeginRun(42, "default")
	require.NoError(t, err)

	for tick := uint64(1); tick <= 30; tick++ {
		sim.Tick(tick)
		if tick%10 == 0 {
			require.NoError(t, db.SaveState(runID, sim))
		}
	}

	points, err := db.PriceHistory(runID, "Fish")
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, []uint64{10, 20, 30}, []uint64{points[0].Tick, points[1].Tick, points[2].Tick})
	assert.Equal(t, 2.0, points[0].OriginalCost)

	snap := sim.Snapshot()
	assert.InDelta(t, snap.Goods["Fish"].Price.Cost, points[2].Cost, 1e-12)
	assert.InDelta(t, snap.Goods["Fish"].Inventory, points[2].Inventory, 1e-12)

	jobs, err := db.JobHistory(runID, "Fisherman")
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, snap.Jobs["Fisherman"], jobs[2].Count)

	events, err := db.RecentEvents(runID, 1000)
	require.NoError(t, err)
	assert.Len(t, events, sim.Statistics().TotalSwitches)
	assert.Empty(t, sim.DrainEvents(), "saved events are drained")
}

func TestSaveSnapshotReplacesTick(t *testing.T) {
	db := openTestDB(t)
	sim := newTestSimulation(t)
	runID, err := db.BeginRun(42, "default")
	require.NoError(t, err)

	sim.Tick(1)
	snap := sim.Snapshot()
	require.NoError(t, db.SaveSnapshot(runID, snap))
	require.NoError(t, db.SaveSnapshot(runID, snap))

	points, err := db.PriceHistory(runID, "Lumber")
	require.NoError(t, err)
	assert.Len(t, points, 1)
}

func TestSaveEvents(t *testing.T) {
	db := openTestDB(t)
	runID, err := db.BeginRun(1, "")
	require.NoError(t, err)

	require.NoError(t, db.SaveEvents(runID, nil))
	require.NoError(t, db.SaveEvents(runID, []engine.Event{
		{Tick: 3, Description: "agent 4 switched from Lumberjack to Fisherman", Category: "switch"},
		{Tick: 9, Description: "agent 2 switched from Lumberjack to Fisherman", Category: "switch"},
	}))

	events, err := db.RecentEvents(runID, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(9), events[0].Tick)

	other, err := db.RecentEvents("other-run", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestLatestRunEmpty(t *testing.T) {
	db := openTestDB(t)
	_, err := db.LatestRun()
	assert.Error(t, err)
}
