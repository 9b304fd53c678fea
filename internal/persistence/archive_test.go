package persistence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-market/internal/economy"
)

func TestArchiveRoundTrip(t *testing.T) {
	sim := newTestSimulation(t)
	path := filepath.Join(t.TempDir(), "runs", "run.jsonl.zst")

	w, err := CreateArchive(path, ArchiveHeader{RunID: "r1", Seed: 42})
	require.NoError(t, err)
	var want []economy.Snapshot
	for tick := uint64(1); tick <= 25; tick++ {
		sim.Tick(tick)
		snap := sim.Snapshot()
		want = append(want, snap)
		require.NoError(t, w.Append(snap))
	}
	assert.Equal(t, 25, w.Len())
	require.NoError(t, w.Close())

	var got []economy.Snapshot
	header, err := ReadArchive(path, func(s economy.Snapshot) error {
		got = append(got, s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", header.RunID)
	assert.Equal(t, int64(42), header.Seed)
	require.Len(t, got, 25)
	assert.Equal(t, want[24].Tick, got[24].Tick)
	assert.InDelta(t, want[24].Goods["Fish"].Price.Cost, got[24].Goods["Fish"].Price.Cost, 1e-12)
	assert.Equal(t, want[24].Jobs, got[24].Jobs)
}

func TestArchiveStopsOnCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl.zst")
	w, err := CreateArchive(path, ArchiveHeader{Seed: 1})
	require.NoError(t, err)
	for tick := uint64(1); tick <= 5; tick++ {
		require.NoError(t, w.Append(economy.Snapshot{Tick: tick}))
	}
	require.NoError(t, w.Close())

	stop := errors.New("stop")
	seen := 0
	_, err = ReadArchive(path, func(s economy.Snapshot) error {
		seen++
		if s.Tick == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, seen)
}

func TestReadArchiveRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.zst")
	require.NoError(t, os.WriteFile(path, []byte("not zstd at all"), 0o644))

	_, err := ReadArchive(path, func(economy.Snapshot) error { return nil })
	assert.Error(t, err)
}
