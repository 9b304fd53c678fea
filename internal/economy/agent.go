package economy

// AgentID is a unique identifier for an agent.
type AgentID uint64

// Profession is an agent's job, capacity, and supply response. It is a value:
// a career switch replaces it wholesale.
type Profession struct {
	Job                Job     `json:"job"`
	SkillLevel         float64 `json:"skill_level"`          // Max output per tick
	ShortRunProduction float64 `json:"short_run_production"` // Output realized last tick
	SupplyElasticity   float64 `json:"supply_elasticity"`
}

// Defaults for a freshly switched profession.
const (
	NoviceSkill            = 1.0
	NoviceShortRun         = 1.0
	NoviceSupplyElasticity = 0.7
)

// NoviceProfession is what an agent starts as after switching careers.
func NoviceProfession(j Job) Profession {
	return Profession{
		Job:                j,
		SkillLevel:         NoviceSkill,
		ShortRunProduction: NoviceShortRun,
		SupplyElasticity:   NoviceSupplyElasticity,
	}
}

// WithShortRun returns a copy with the realized output replaced.
func (p Profession) WithShortRun(q float64) Profession {
	p.ShortRunProduction = q
	return p
}

// Priority is an agent's desirability record for one good.
type Priority struct {
	Good             Good    `json:"good"`
	BaseWeight       float64 `json:"base_weight"`
	RelativeNeed     float64 `json:"relative_need"`
	ScarcityModifier float64 `json:"scarcity_modifier"`
	Elasticity       float64 `json:"elasticity"` // Current price elasticity of demand
	Weight           float64 `json:"weight"`

	originalElasticity float64
}

// NewPriority creates a priority with its baseline elasticity fixed.
func NewPriority(g Good, baseWeight, relativeNeed, modifier, elasticity float64) Priority {
	return Priority{
		Good:               g,
		BaseWeight:         baseWeight,
		RelativeNeed:       relativeNeed,
		ScarcityModifier:   modifier,
		Elasticity:         elasticity,
		originalElasticity: elasticity,
	}
}

// OriginalElasticity returns the elasticity the agent has with no unmet need.
func (p Priority) OriginalElasticity() float64 { return p.originalElasticity }

// Unmet-need decay schedule.
const (
	UnmetDecayAge     = 50
	UnmetDecayRate    = 0.01
	UnmetFastDecayAge = 100
	UnmetFastDecay    = 0.04
	UnmetNoise        = 0.01 // Shortfalls at or below this are not remembered
)

// UnmetNeed records a consumption shortfall and how long ago it happened.
type UnmetNeed struct {
	Age       int     `json:"age"`
	Magnitude float64 `json:"magnitude"`
}

// ConsumptionProfile is how much of a good an agent uses per tick, plus its
// memory of past shortfalls.
type ConsumptionProfile struct {
	Rate  float64     `json:"rate"`
	Unmet []UnmetNeed `json:"unmet,omitempty"`
}

// AgeUnmet ages every record by one tick, decays old records, and forgets
// records that have decayed to nothing.
func (c *ConsumptionProfile) AgeUnmet() {
	kept := c.Unmet[:0]
	for _, u := range c.Unmet {
		u.Age++
		if u.Age >= UnmetDecayAge {
			u.Magnitude -= UnmetDecayRate
		}
		if u.Age >= UnmetFastDecayAge {
			u.Magnitude -= UnmetFastDecay
		}
		if u.Magnitude > 0 {
			kept = append(kept, u)
		}
	}
	c.Unmet = kept
}

// Remember records a new shortfall if it exceeds the noise threshold.
func (c *ConsumptionProfile) Remember(shortfall float64) bool {
	if shortfall <= UnmetNoise {
		return false
	}
	c.Unmet = append(c.Unmet, UnmetNeed{Magnitude: shortfall})
	return true
}

// Outstanding sums the magnitudes of every remembered shortfall.
func (c *ConsumptionProfile) Outstanding() float64 {
	total := 0.0
	for _, u := range c.Unmet {
		total += u.Magnitude
	}
	return total
}

// Agent is one autonomous economic actor.
type Agent struct {
	ID           AgentID                      `json:"id"`
	Inventory    Inventory                    `json:"inventory"`
	Priorities   []Priority                   `json:"priorities"`
	Consumption  map[Good]*ConsumptionProfile `json:"consumption"`
	Profession   Profession                   `json:"profession"`
	Money        float64                      `json:"money"`
	Satisfaction float64                      `json:"satisfaction"`
}

// Priority returns the agent's priority record for g, or nil.
// Priorities are normally stored in good order, one per good.
func (a *Agent) Priority(g Good) *Priority {
	if int(g) < len(a.Priorities) && a.Priorities[g].Good == g {
		return &a.Priorities[g]
	}
	for i := range a.Priorities {
		if a.Priorities[i].Good == g {
			return &a.Priorities[i]
		}
	}
	return nil
}

// SwitchProfession replaces the profession and resets satisfaction.
func (a *Agent) SwitchProfession(j Job) {
	a.Profession = NoviceProfession(j)
	a.Satisfaction = 0
}
