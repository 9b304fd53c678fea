// Market report: periodic structured summary of prices, stock, and jobs.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-market/internal/economy"
)

// Report logs a summary of the market after the given tick.
func (s *Simulation) Report(tick uint64) {
	snap := s.Snapshot()
	stats := s.Statistics()

	slog.Info("market report",
		"tick", tick,
		"agents", snap.Agents,
		"market_money", humanize.Commaf(round2(snap.MarketMoney)),
		"agent_money", humanize.Commaf(round2(snap.AgentMoney)),
		"avg_satisfaction", fmt.Sprintf("%.2f", snap.AvgSatisfaction),
		"purchases", stats.Purchases,
		"switches", stats.TotalSwitches,
		"jobs", FormatJobs(snap),
	)
	for _, name := range snap.GoodNames() {
		g := snap.Goods[name]
		slog.Info("good",
			"tick", tick,
			"good", name,
			"cost", fmt.Sprintf("%.3f", g.Price.Cost),
			"original_cost", fmt.Sprintf("%.3f", g.Price.OriginalCost),
			"inventory", humanize.Commaf(round2(g.Inventory)),
			"production", fmt.Sprintf("%.2f", g.Production),
			"consumption", fmt.Sprintf("%.2f", g.Consumption),
		)
	}
}

// FormatJobs renders the job histogram as "Job=n" pairs in name order.
func FormatJobs(snap economy.Snapshot) string {
	parts := make([]string, 0, len(snap.Jobs))
	for _, name := range snap.JobNames() {
		parts = append(parts, fmt.Sprintf("%s=%d", name, snap.Jobs[name]))
	}
	return strings.Join(parts, " ")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
