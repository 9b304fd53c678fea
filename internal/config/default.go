package config

// Default returns the reference scenario: ten agents trading Fish and Lumber,
// nine of them Lumberjacks, all consuming Fish and Lumber 7:3. The market
// starts oversupplied with Lumber labor; Fishermen are the scarce trade.
func Default() *Config {
	consumption := map[string]float64{"Fish": 0.35, "Lumber": 0.15}
	priorities := map[string]PriorityConfig{
		"Fish":   {BaseWeight: 7, RelativeNeed: 1, Modifier: 1, Elasticity: -0.5},
		"Lumber": {BaseWeight: 3, RelativeNeed: 1, Modifier: 1, Elasticity: -1.2},
	}

	c := &Config{
		Seed:        42,
		Ticks:       500,
		ReportEvery: 50,
		SaveEvery:   100,
		LogLevel:    "info",
		Market: MarketConfig{
			Money:     100000,
			Inventory: map[string]float64{"Fish": 10, "Lumber": 2},
		},
		Goods: []GoodConfig{
			{Name: "Fish", Job: "Fisherman", Cost: 1.5, EquilibriumCost: 2, OriginalCost: 2},
			{Name: "Lumber", Job: "Lumberjack", Cost: 3.5, EquilibriumCost: 3, OriginalCost: 3},
		},
		Populations: []PopulationConfig{
			{
				Name:             "fishermen",
				Count:            1,
				Job:              "Fisherman",
				Skill:            1,
				SupplyElasticity: 0.7,
				Money:            10,
				Inventory:        map[string]float64{"Fish": 2, "Lumber": 2},
				Consumption:      consumption,
				Priorities:       priorities,
			},
			{
				Name:             "lumberjacks",
				Count:            9,
				Job:              "Lumberjack",
				Skill:            1,
				SupplyElasticity: 0.7,
				Money:            10,
				Inventory:        map[string]float64{"Fish": 1, "Lumber": 3},
				Consumption:      consumption,
				Priorities:       priorities,
			},
		},
	}
	return c
}
