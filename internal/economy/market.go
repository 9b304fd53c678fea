package economy

// Market is the shared state every tick stage reads and mutates.
type Market struct {
	Registry  *Registry
	Agents    []*Agent
	Inventory Inventory
	Prices    []Price // Indexed by Good
	Money     float64 // Pool that pays producers and receives purchases

	// Aggregates recomputed by the reallocation stage every tick and read
	// by the next tick's production stage.
	Production  []float64
	Consumption []float64
	Difference  []float64
}

// NewMarket creates a market with zeroed aggregates. prices must hold one
// row per registered good.
func NewMarket(r *Registry, agents []*Agent, inventory Inventory, prices []Price, money float64) *Market {
	n := r.NumGoods()
	return &Market{
		Registry:    r,
		Agents:      agents,
		Inventory:   inventory,
		Prices:      prices,
		Money:       money,
		Production:  make([]float64, n),
		Consumption: make([]float64, n),
		Difference:  make([]float64, n),
	}
}

// OutputOf returns the good an agent's profession produces.
func (m *Market) OutputOf(a *Agent) Good {
	return m.Registry.Output(a.Profession.Job)
}

// Produces reports whether the agent's profession produces g.
func (m *Market) Produces(a *Agent, g Good) bool {
	return m.OutputOf(a) == g
}

// CountNotProducing returns how many agents do not produce g.
func (m *Market) CountNotProducing(g Good) int {
	n := 0
	for _, a := range m.Agents {
		if !m.Produces(a, g) {
			n++
		}
	}
	return n
}

// JobCounts returns the number of agents working each job.
func (m *Market) JobCounts() []int {
	counts := make([]int, m.Registry.NumJobs())
	for _, a := range m.Agents {
		counts[a.Profession.Job]++
	}
	return counts
}

// AgentMoney returns the total money held by agents.
func (m *Market) AgentMoney() float64 {
	total := 0.0
	for _, a := range m.Agents {
		total += a.Money
	}
	return total
}
