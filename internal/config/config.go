// Package config loads market scenarios: goods and their producing jobs, the
// price table, the market pool, the starting population, and run settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid scenario")

type Config struct {
	Seed        int64         `yaml:"seed" json:"seed"`
	Ticks       uint64        `yaml:"ticks" json:"ticks"`
	Interval    time.Duration `yaml:"interval" json:"interval"`
	ReportEvery uint64        `yaml:"report_every" json:"report_every"`
	SaveEvery   uint64        `yaml:"save_every" json:"save_every"`
	DBPath      string        `yaml:"db_path,omitempty" json:"db_path,omitempty"`
	APIPort     int           `yaml:"api_port,omitempty" json:"api_port,omitempty"`
	AdminKey    string        `yaml:"-" json:"-"`
	LogLevel    string        `yaml:"log_level" json:"log_level"`

	Market      MarketConfig       `yaml:"market" json:"market"`
	Goods       []GoodConfig       `yaml:"goods" json:"goods"`
	Populations []PopulationConfig `yaml:"populations" json:"populations"`
}

type MarketConfig struct {
	Money     float64            `yaml:"money" json:"money"`
	Inventory map[string]float64 `yaml:"inventory" json:"inventory"`
}

// GoodConfig is one good, the job that produces it, and its price row.
type GoodConfig struct {
	Name            string  `yaml:"name" json:"name"`
	Job             string  `yaml:"job,omitempty" json:"job,omitempty"`
	Cost            float64 `yaml:"cost" json:"cost"`
	EquilibriumCost float64 `yaml:"equilibrium_cost" json:"equilibrium_cost"`
	OriginalCost    float64 `yaml:"original_cost" json:"original_cost"`
}

// PopulationConfig describes Count identical agents.
type PopulationConfig struct {
	Name             string                    `yaml:"name" json:"name"`
	Count            int                       `yaml:"count" json:"count"`
	Job              string                    `yaml:"job" json:"job"`
	Skill            float64                   `yaml:"skill" json:"skill"`
	SupplyElasticity float64                   `yaml:"supply_elasticity" json:"supply_elasticity"`
	Money            float64                   `yaml:"money" json:"money"`
	Satisfaction     float64                   `yaml:"satisfaction,omitempty" json:"satisfaction,omitempty"`
	Jitter           float64                   `yaml:"jitter,omitempty" json:"jitter,omitempty"` // Fractional noise on money and skill
	Inventory        map[string]float64        `yaml:"inventory" json:"inventory"`
	Consumption      map[string]float64        `yaml:"consumption" json:"consumption"`
	Priorities       map[string]PriorityConfig `yaml:"priorities" json:"priorities"`
}

type PriorityConfig struct {
	BaseWeight   float64 `yaml:"base_weight" json:"base_weight"`
	RelativeNeed float64 `yaml:"relative_need" json:"relative_need"`
	Modifier     float64 `yaml:"modifier" json:"modifier"`
	Elasticity   float64 `yaml:"elasticity" json:"elasticity"`
}

// Load reads a scenario file, applies defaults, and validates it.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse checks a YAML scenario against the schema, decodes it, applies
// defaults, and validates it.
func Parse(b []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := checkSchema(doc); err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes the scenario as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.ReportEvery == 0 {
		c.ReportEvery = 50
	}
	if c.SaveEvery == 0 {
		c.SaveEvery = 100
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	for i := range c.Goods {
		g := &c.Goods[i]
		if g.OriginalCost == 0 {
			g.OriginalCost = g.Cost
		}
		if g.EquilibriumCost == 0 {
			g.EquilibriumCost = g.OriginalCost
		}
	}
	for i := range c.Populations {
		p := &c.Populations[i]
		if p.Count == 0 {
			p.Count = 1
		}
		if p.Skill == 0 {
			p.Skill = 1.0
		}
		if p.SupplyElasticity == 0 {
			p.SupplyElasticity = 0.7
		}
	}
}

// Validate checks that every name the scenario references resolves.
func (c *Config) Validate() error {
	if len(c.Goods) == 0 {
		return fmt.Errorf("%w: no goods", ErrInvalid)
	}

	goods := make(map[string]bool, len(c.Goods))
	jobs := make(map[string]bool, len(c.Goods))
	for _, g := range c.Goods {
		if g.Name == "" {
			return fmt.Errorf("%w: good with empty name", ErrInvalid)
		}
		if goods[g.Name] {
			return fmt.Errorf("%w: duplicate good %q", ErrInvalid, g.Name)
		}
		goods[g.Name] = true
		if g.OriginalCost <= 0 {
			return fmt.Errorf("%w: good %q: original cost must be positive", ErrInvalid, g.Name)
		}
		if g.Job != "" {
			if jobs[g.Job] {
				return fmt.Errorf("%w: job %q produces more than one good", ErrInvalid, g.Job)
			}
			jobs[g.Job] = true
		}
	}

	if c.Market.Money < 0 {
		return fmt.Errorf("%w: negative market money", ErrInvalid)
	}
	if err := checkGoods("market inventory", c.Market.Inventory, goods); err != nil {
		return err
	}

	if len(c.Populations) == 0 {
		return fmt.Errorf("%w: no populations", ErrInvalid)
	}
	for _, p := range c.Populations {
		where := fmt.Sprintf("population %q", p.Name)
		if p.Count < 0 {
			return fmt.Errorf("%w: %s: negative count", ErrInvalid, where)
		}
		if !jobs[p.Job] {
			return fmt.Errorf("%w: %s: job %q produces no good", ErrInvalid, where, p.Job)
		}
		if p.Money < 0 {
			return fmt.Errorf("%w: %s: negative money", ErrInvalid, where)
		}
		if p.Jitter < 0 || p.Jitter >= 1 {
			return fmt.Errorf("%w: %s: jitter must be in [0, 1)", ErrInvalid, where)
		}
		if err := checkGoods(where+" inventory", p.Inventory, goods); err != nil {
			return err
		}
		if err := checkGoods(where+" consumption", p.Consumption, goods); err != nil {
			return err
		}
		for name := range p.Priorities {
			if !goods[name] {
				return fmt.Errorf("%w: %s priorities: unknown good %q", ErrInvalid, where, name)
			}
		}
	}
	return nil
}

func checkGoods(where string, quantities map[string]float64, goods map[string]bool) error {
	for name, q := range quantities {
		if !goods[name] {
			return fmt.Errorf("%w: %s: unknown good %q", ErrInvalid, where, name)
		}
		if q < 0 {
			return fmt.Errorf("%w: %s: negative quantity of %q", ErrInvalid, where, name)
		}
	}
	return nil
}

// UnproducedGoods returns consumed goods that no job produces.
func (c *Config) UnproducedGoods() []string {
	produced := make(map[string]bool)
	for _, g := range c.Goods {
		if g.Job != "" {
			produced[g.Name] = true
		}
	}
	var out []string
	seen := make(map[string]bool)
	for _, p := range c.Populations {
		for name, rate := range p.Consumption {
			if rate > 0 && !produced[name] && !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	sort.Strings(out)
	return out
}
