// Supply reallocation: satisfaction responds to shortages and gluts, and
// dissatisfied agents drift into undersupplied professions.
package engine

import (
	"math"

	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/entropy"
)

const (
	shortagePenalty = 0.5
	demandReward    = 1.0
	// floodMultiple of aggregate consumption held by the market counts as flooded.
	floodMultiple = 10.0
	// minSwitchChance is the smallest per-mille chance that can trigger a switch.
	minSwitchChance = 5.0
	switchRoll      = 1000.0
	deficitWeight   = 100.0
)

// Switch records one agent changing profession.
type Switch struct {
	Agent        economy.AgentID
	From         economy.Job
	To           economy.Job
	Satisfaction float64 // Satisfaction before the reset
}

// Aggregate recomputes per-good production, consumption, and their difference.
// Goods nobody produces aggregate to zero production.
func Aggregate(m *economy.Market) {
	for g := range m.Production {
		m.Production[g] = 0
		m.Consumption[g] = 0
	}
	for _, a := range m.Agents {
		for g, c := range a.Consumption {
			m.Consumption[g] += c.Rate
		}
		m.Production[m.OutputOf(a)] += a.Profession.ShortRunProduction
	}
	for g := range m.Difference {
		m.Difference[g] = m.Production[g] - m.Consumption[g]
	}
}

// Reallocate runs the satisfaction and reallocation stage and returns the
// profession switches it made.
func Reallocate(m *economy.Market, rng *entropy.Source) []Switch {
	Aggregate(m)

	for _, g := range m.Registry.Goods() {
		if m.Difference[g] < 0 {
			for _, a := range m.Agents {
				if !m.Produces(a, g) {
					a.Satisfaction -= shortagePenalty
				}
			}
		}
		if m.Inventory[g] < floodMultiple*m.Consumption[g] {
			for _, a := range m.Agents {
				if m.Produces(a, g) {
					a.Satisfaction += demandReward
				}
			}
		}
	}

	var switches []Switch
	for _, a := range m.Agents {
		if a.Satisfaction >= 0 {
			continue
		}
		if rng.Uniform(0, switchRoll) >= switchChance(a.Satisfaction) {
			continue
		}
		job, ok := pickDeficitJob(m, rng)
		if !ok {
			continue
		}
		switches = append(switches, Switch{
			Agent:        a.ID,
			From:         a.Profession.Job,
			To:           job,
			Satisfaction: a.Satisfaction,
		})
		a.SwitchProfession(job)
	}
	return switches
}

// switchChance returns the per-mille chance of a switch for a given
// satisfaction. Agents above −25 never switch.
func switchChance(satisfaction float64) float64 {
	if satisfaction >= 0 {
		return 0
	}
	chance := math.Sqrt(math.Abs(satisfaction))
	if chance < minSwitchChance {
		return 0
	}
	return chance
}

// pickDeficitJob chooses a job producing a good in deficit, weighted by the
// size of the deficit.
func pickDeficitJob(m *economy.Market, rng *entropy.Source) (economy.Job, bool) {
	var jobs []economy.Job
	var weights []int
	for _, g := range m.Registry.Goods() {
		if m.Difference[g] >= 0 {
			continue
		}
		job, ok := m.Registry.ProducerJob(g)
		if !ok {
			continue
		}
		jobs = append(jobs, job)
		weights = append(weights, int(math.Abs(m.Difference[g])*deficitWeight))
	}
	if len(jobs) == 0 {
		return 0, false
	}
	return jobs[rng.WeightedPick(weights)], true
}
