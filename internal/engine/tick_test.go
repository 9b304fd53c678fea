package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEngineRunsToMaxTicks(t *testing.T) {
	e := NewEngine()
	e.MaxTicks = 10
	e.ReportEvery = 5
	e.SaveEvery = 3

	var ticks, reports, saves int
	e.OnTick = func(uint64) { ticks++ }
	e.OnReport = func(uint64) { reports++ }
	e.OnSave = func(uint64) { saves++ }

	e.Run(context.Background())

	assert.Equal(t, uint64(10), e.Tick)
	assert.Equal(t, 10, ticks)
	assert.Equal(t, 2, reports)
	assert.Equal(t, 3, saves)
	assert.False(t, e.Running())
}

func TestEngineStopsOnCancel(t *testing.T) {
	e := NewEngine()
	e.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	e.OnTick = func(tick uint64) {
		if tick == 3 {
			cancel()
		}
	}

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.Equal(t, uint64(3), e.Tick)
}

func TestEngineStep(t *testing.T) {
	e := NewEngine()
	var seen []uint64
	e.OnTick = func(tick uint64) { seen = append(seen, tick) }

	e.Step()
	e.Step()

	assert.Equal(t, []uint64{1, 2}, seen)
	assert.Equal(t, 1.0, e.Speed())
	e.SetSpeed(0)
	assert.Equal(t, 0.0, e.Speed())
}
