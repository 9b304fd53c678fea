package economy

import "sort"

// PriceView is a reporting copy of a price row.
type PriceView struct {
	Cost            float64 `json:"cost"`
	EquilibriumCost float64 `json:"equilibrium_cost"`
	OriginalCost    float64 `json:"original_cost"`
}

// GoodStats is the per-good aggregate view of one tick.
type GoodStats struct {
	Price       PriceView `json:"price"`
	Inventory   float64   `json:"inventory"`
	Production  float64   `json:"production"`
	Consumption float64   `json:"consumption"`
	Difference  float64   `json:"difference"`
}

// Snapshot is a read-only copy of market state keyed by display names.
type Snapshot struct {
	Tick            uint64               `json:"tick"`
	Goods           map[string]GoodStats `json:"goods"`
	Jobs            map[string]int       `json:"jobs"`
	MarketMoney     float64              `json:"market_money"`
	AgentMoney      float64              `json:"agent_money"`
	AvgSatisfaction float64              `json:"avg_satisfaction"`
	Agents          int                  `json:"agents"`
}

// Snapshot copies the current market state. It does not mutate the market.
func (m *Market) Snapshot(tick uint64) Snapshot {
	snap := Snapshot{
		Tick:        tick,
		Goods:       make(map[string]GoodStats, m.Registry.NumGoods()),
		Jobs:        make(map[string]int, m.Registry.NumJobs()),
		MarketMoney: m.Money,
		AgentMoney:  m.AgentMoney(),
		Agents:      len(m.Agents),
	}

	for _, g := range m.Registry.Goods() {
		p := m.Prices[g]
		snap.Goods[m.Registry.GoodName(g)] = GoodStats{
			Price: PriceView{
				Cost:            p.Cost,
				EquilibriumCost: p.EquilibriumCost,
				OriginalCost:    p.OriginalCost(),
			},
			Inventory:   m.Inventory[g],
			Production:  m.Production[g],
			Consumption: m.Consumption[g],
			Difference:  m.Difference[g],
		}
	}

	for j, n := range m.JobCounts() {
		snap.Jobs[m.Registry.JobName(Job(j))] = n
	}

	if len(m.Agents) > 0 {
		total := 0.0
		for _, a := range m.Agents {
			total += a.Satisfaction
		}
		snap.AvgSatisfaction = total / float64(len(m.Agents))
	}
	return snap
}

// GoodNames returns the snapshot's good names in sorted order.
func (s Snapshot) GoodNames() []string {
	names := make([]string, 0, len(s.Goods))
	for name := range s.Goods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JobNames returns the snapshot's job names in sorted order.
func (s Snapshot) JobNames() []string {
	names := make([]string, 0, len(s.Jobs))
	for name := range s.Jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AgentView is a reporting copy of one agent.
type AgentView struct {
	ID           AgentID            `json:"id"`
	Job          string             `json:"job"`
	SkillLevel   float64            `json:"skill_level"`
	Money        float64            `json:"money"`
	Satisfaction float64            `json:"satisfaction"`
	Inventory    map[string]float64 `json:"inventory"`
	Weights      map[string]float64 `json:"weights"`
	UnmetNeed    map[string]float64 `json:"unmet_need"`
}

// AgentViews copies every agent for reporting.
func (m *Market) AgentViews() []AgentView {
	views := make([]AgentView, 0, len(m.Agents))
	for _, a := range m.Agents {
		v := AgentView{
			ID:           a.ID,
			Job:          m.Registry.JobName(a.Profession.Job),
			SkillLevel:   a.Profession.SkillLevel,
			Money:        a.Money,
			Satisfaction: a.Satisfaction,
			Inventory:    make(map[string]float64, len(a.Inventory)),
			Weights:      make(map[string]float64, len(a.Priorities)),
			UnmetNeed:    make(map[string]float64, len(a.Consumption)),
		}
		for g, q := range a.Inventory {
			v.Inventory[m.Registry.GoodName(Good(g))] = q
		}
		for _, p := range a.Priorities {
			v.Weights[m.Registry.GoodName(p.Good)] = p.Weight
		}
		for g, c := range a.Consumption {
			v.UnmetNeed[m.Registry.GoodName(g)] = c.Outstanding()
		}
		views = append(views, v)
	}
	return views
}
