// Package population builds a market from a scenario: the good and job
// registry, the price table, and the starting agents.
package population

import (
	"fmt"
	"log/slog"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/economy"
)

// noiseStep spaces agents along the noise field.
const noiseStep = 0.37

// Spawner creates agents for a market.
type Spawner struct {
	moneyNoise opensimplex.Noise
	skillNoise opensimplex.Noise
	nextID     economy.AgentID
}

// NewSpawner creates an agent spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		moneyNoise: opensimplex.New(seed + 300),
		skillNoise: opensimplex.New(seed + 301),
		nextID:     1,
	}
}

// Build creates the registry, market, and agents a scenario describes.
func Build(cfg *config.Config, seed int64) (*economy.Market, error) {
	goods := make([]string, 0, len(cfg.Goods))
	var outputs []economy.JobOutput
	for _, g := range cfg.Goods {
		goods = append(goods, g.Name)
		if g.Job != "" {
			outputs = append(outputs, economy.JobOutput{Job: g.Job, Good: g.Name})
		}
	}
	reg, err := economy.NewRegistry(goods, outputs)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	for _, name := range cfg.UnproducedGoods() {
		slog.Warn("consumed good has no producer", "good", name)
	}

	prices := make([]economy.Price, reg.NumGoods())
	for _, g := range cfg.Goods {
		id, err := reg.LookupGood(g.Name)
		if err != nil {
			return nil, err
		}
		prices[id] = economy.NewPrice(g.Cost, g.EquilibriumCost, g.OriginalCost)
	}

	inventory, err := fillInventory(reg, cfg.Market.Inventory)
	if err != nil {
		return nil, fmt.Errorf("market inventory: %w", err)
	}

	spawner := NewSpawner(seed)
	var agents []*economy.Agent
	for _, pc := range cfg.Populations {
		batch, err := spawner.SpawnPopulation(reg, pc)
		if err != nil {
			return nil, fmt.Errorf("population %q: %w", pc.Name, err)
		}
		agents = append(agents, batch...)
	}

	return economy.NewMarket(reg, agents, inventory, prices, cfg.Market.Money), nil
}

// SpawnPopulation creates the agents of one population group.
func (s *Spawner) SpawnPopulation(reg *economy.Registry, pc config.PopulationConfig) ([]*economy.Agent, error) {
	job, err := reg.LookupJob(pc.Job)
	if err != nil {
		return nil, err
	}

	agents := make([]*economy.Agent, 0, pc.Count)
	for i := 0; i < pc.Count; i++ {
		a, err := s.spawnOne(reg, job, pc)
		if err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}

func (s *Spawner) spawnOne(reg *economy.Registry, job economy.Job, pc config.PopulationConfig) (*economy.Agent, error) {
	id := s.nextID
	s.nextID++

	inventory, err := fillInventory(reg, pc.Inventory)
	if err != nil {
		return nil, err
	}

	consumption := make(map[economy.Good]*economy.ConsumptionProfile, len(pc.Consumption))
	for name, rate := range pc.Consumption {
		g, err := reg.LookupGood(name)
		if err != nil {
			return nil, err
		}
		consumption[g] = &economy.ConsumptionProfile{Rate: rate}
	}

	// One priority per good, in good order.
	priorities := make([]economy.Priority, 0, reg.NumGoods())
	for _, g := range reg.Goods() {
		pr, ok := pc.Priorities[reg.GoodName(g)]
		if !ok {
			priorities = append(priorities, economy.NewPriority(g, 0, 0, 0, 0))
			continue
		}
		priorities = append(priorities, economy.NewPriority(g, pr.BaseWeight, pr.RelativeNeed, pr.Modifier, pr.Elasticity))
	}

	x := float64(id) * noiseStep
	money := pc.Money * (1 + pc.Jitter*s.moneyNoise.Eval2(x, 0))
	skill := pc.Skill * (1 + pc.Jitter*s.skillNoise.Eval2(x, 0))

	return &economy.Agent{
		ID:          id,
		Inventory:   inventory,
		Priorities:  priorities,
		Consumption: consumption,
		Profession: economy.Profession{
			Job:                job,
			SkillLevel:         skill,
			ShortRunProduction: skill,
			SupplyElasticity:   pc.SupplyElasticity,
		},
		Money:        money,
		Satisfaction: pc.Satisfaction,
	}, nil
}

func fillInventory(reg *economy.Registry, quantities map[string]float64) (economy.Inventory, error) {
	inv := economy.NewInventory(reg)
	for name, q := range quantities {
		g, err := reg.LookupGood(name)
		if err != nil {
			return nil, err
		}
		inv[g] = q
	}
	return inv, nil
}
