// Simulation ties the market to the tick pipeline and runs it each tick.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/entropy"
)

// maxEvents bounds the in-memory event log.
const maxEvents = 1000

// Simulation holds the market and the random source every stage draws from.
type Simulation struct {
	Market   *economy.Market
	Rand     *entropy.Source
	Events   []Event // Recent events, trimmed to the last maxEvents
	LastTick uint64  // Most recent tick processed

	// Statistics tracked per tick.
	Stats SimStats

	mu      sync.RWMutex
	pending []Event // Events not yet handed to persistence
}

// Event is a notable occurrence in the market.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Description string `json:"description" db:"description"`
	Category    string `json:"category" db:"category"` // "switch"
}

// SimStats tracks aggregate statistics across the run.
type SimStats struct {
	Purchases     int `json:"purchases"`      // Units bought last tick
	TotalSwitches int `json:"total_switches"` // Profession switches so far
}

// NewSimulation creates a Simulation over a built market.
func NewSimulation(m *economy.Market, rng *entropy.Source) *Simulation {
	return &Simulation{
		Market: m,
		Rand:   rng,
	}
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastTick
}

// Tick advances the market by one tick: production, consumption, priorities,
// purchases, pricing, then reallocation. The tick index is only recorded.
func (s *Simulation) Tick(tick uint64) []Switch {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick
	m := s.Market

	Produce(m, s.Rand)
	Consume(m)
	Prioritize(m)
	s.Stats.Purchases = Purchase(m, s.Rand)
	Price(m)
	switches := Reallocate(m, s.Rand)

	s.Stats.TotalSwitches += len(switches)
	for _, sw := range switches {
		desc := fmt.Sprintf("agent %d switched from %s to %s at satisfaction %.2f",
			sw.Agent, m.Registry.JobName(sw.From), m.Registry.JobName(sw.To), sw.Satisfaction)
		slog.Debug("profession switch",
			"tick", tick,
			"agent", sw.Agent,
			"from", m.Registry.JobName(sw.From),
			"to", m.Registry.JobName(sw.To),
		)
		s.record(Event{Tick: tick, Description: desc, Category: "switch"})
	}
	return switches
}

func (s *Simulation) record(e Event) {
	s.Events = append(s.Events, e)
	s.pending = append(s.pending, e)
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}

// Snapshot returns a read-only copy of the market after the last tick.
func (s *Simulation) Snapshot() economy.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Market.Snapshot(s.LastTick)
}

// AgentViews returns read-only copies of every agent.
func (s *Simulation) AgentViews() []economy.AgentView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Market.AgentViews()
}

// RecentEvents returns up to limit of the most recent events, newest last.
func (s *Simulation) RecentEvents(limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && len(s.Events) > limit {
		start = len(s.Events) - limit
	}
	out := make([]Event, len(s.Events)-start)
	copy(out, s.Events[start:])
	return out
}

// DrainEvents returns events recorded since the last drain.
func (s *Simulation) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// Statistics returns a copy of the running statistics.
func (s *Simulation) Statistics() SimStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stats
}
