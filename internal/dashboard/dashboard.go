// Package dashboard is a terminal view of a running market: prices, stock,
// job counts, and the latest profession switches, refreshed every tick.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/engine"
)

const (
	minInterval = 10 * time.Millisecond
	maxInterval = 2 * time.Second
	eventLines  = 6
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// tickMsg advances the simulation by one tick. Ticks from an older
// generation were scheduled before a pause and are dropped.
type tickMsg struct{ gen int }

// Model is the bubbletea model driving a simulation from the terminal.
type Model struct {
	sim      *engine.Simulation
	eng      *engine.Engine
	interval time.Duration
	paused   bool
	done     bool
	gen      int

	snap      economy.Snapshot
	prevCosts map[string]float64
}

// New creates a dashboard over sim. eng supplies the tick counter, MaxTicks,
// and the OnTick/OnReport/OnSave callbacks; the dashboard calls Step itself.
func New(sim *engine.Simulation, eng *engine.Engine, interval time.Duration) Model {
	if interval < minInterval {
		interval = minInterval
	}
	return Model{
		sim:       sim,
		eng:       eng,
		interval:  interval,
		snap:      sim.Snapshot(),
		prevCosts: make(map[string]float64),
	}
}

// Init schedules the first tick.
func (m Model) Init() tea.Cmd {
	return m.schedule()
}

func (m Model) schedule() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

// Update handles key presses and tick messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
			m.gen++
			if !m.paused && !m.done {
				return m, m.schedule()
			}
		case "+", "=":
			m.interval /= 2
			if m.interval < minInterval {
				m.interval = minInterval
			}
		case "-", "_":
			m.interval *= 2
			if m.interval > maxInterval {
				m.interval = maxInterval
			}
		case "n", "right":
			if m.paused && !m.done {
				m.step()
			}
		}
		return m, nil

	case tickMsg:
		if msg.gen != m.gen || m.paused || m.done {
			return m, nil
		}
		m.step()
		if m.done {
			return m, nil
		}
		return m, m.schedule()
	}
	return m, nil
}

func (m *Model) step() {
	if m.eng.MaxTicks > 0 && m.eng.Tick >= m.eng.MaxTicks {
		m.done = true
		return
	}
	for name, g := range m.snap.Goods {
		m.prevCosts[name] = g.Price.Cost
	}
	m.eng.Step()
	m.snap = m.sim.Snapshot()
	if m.eng.MaxTicks > 0 && m.eng.Tick >= m.eng.MaxTicks {
		m.done = true
	}
}

// Tick returns the last tick shown.
func (m Model) Tick() uint64 { return m.snap.Tick }

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	state := "running"
	switch {
	case m.done:
		state = "finished"
	case m.paused:
		state = "paused"
	}
	b.WriteString(titleStyle.Render("marketsim"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  tick %s  ·  %s  ·  %s/tick",
		humanize.Comma(int64(m.snap.Tick)), state, m.interval)))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Render(m.goodsTable()))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(m.summary()))
	b.WriteString("\n")
	b.WriteString(m.events())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("space pause · n step · +/- speed · q quit"))
	return b.String()
}

func (m Model) goodsTable() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-10s %10s %10s %10s %10s %10s",
		"GOOD", "COST", "ORIGINAL", "STOCK", "PRODUCED", "CONSUMED")))
	for _, name := range m.snap.GoodNames() {
		g := m.snap.Goods[name]
		cost := fmt.Sprintf("%10.3f", g.Price.Cost)
		if prev, ok := m.prevCosts[name]; ok {
			switch {
			case g.Price.Cost > prev:
				cost = upStyle.Render(cost)
			case g.Price.Cost < prev:
				cost = downStyle.Render(cost)
			}
		}
		fmt.Fprintf(&b, "\n%-10s %s %10.3f %10s %10.2f %10.2f",
			name, cost, g.Price.OriginalCost,
			humanize.CommafWithDigits(g.Inventory, 2),
			g.Production, g.Consumption)
	}
	return b.String()
}

func (m Model) summary() string {
	stats := m.sim.Statistics()
	lines := []string{
		headerStyle.Render("JOBS") + "  " + engine.FormatJobs(m.snap),
		fmt.Sprintf("market money %s · agent money %s · satisfaction %.2f",
			humanize.CommafWithDigits(m.snap.MarketMoney, 2),
			humanize.CommafWithDigits(m.snap.AgentMoney, 2),
			m.snap.AvgSatisfaction),
		fmt.Sprintf("purchases last tick %d · switches %d", stats.Purchases, stats.TotalSwitches),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) events() string {
	events := m.sim.RecentEvents(eventLines)
	if len(events) == 0 {
		return dimStyle.Render("no profession switches yet")
	}
	lines := make([]string, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%6d", e.Tick))+"  "+e.Description)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
