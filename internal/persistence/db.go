// Package persistence provides SQLite-based run history storage.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/engine"
)

// DB wraps a SQLite connection for run history.
type DB struct {
	conn *sqlx.DB
}

// Run is one recorded simulation run.
type Run struct {
	ID        string `db:"id" json:"id"`
	Seed      int64  `db:"seed" json:"seed"`
	StartedAt string `db:"started_at" json:"started_at"`
	Scenario  string `db:"scenario" json:"scenario"`
}

// PricePoint is one good's price and stock at one tick.
type PricePoint struct {
	Tick            uint64  `db:"tick" json:"tick"`
	Cost            float64 `db:"cost" json:"cost"`
	EquilibriumCost float64 `db:"equilibrium_cost" json:"equilibrium_cost"`
	OriginalCost    float64 `db:"original_cost" json:"original_cost"`
	Inventory       float64 `db:"inventory" json:"inventory"`
	Production      float64 `db:"production" json:"production"`
	Consumption     float64 `db:"consumption" json:"consumption"`
}

// JobPoint is one job's headcount at one tick.
type JobPoint struct {
	Tick  uint64 `db:"tick" json:"tick"`
	Count int    `db:"count" json:"count"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		scenario TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ticks (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		market_money REAL NOT NULL,
		agent_money REAL NOT NULL,
		avg_satisfaction REAL NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS prices (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		good TEXT NOT NULL,
		cost REAL NOT NULL,
		equilibrium_cost REAL NOT NULL,
		original_cost REAL NOT NULL,
		inventory REAL NOT NULL,
		production REAL NOT NULL,
		consumption REAL NOT NULL,
		PRIMARY KEY (run_id, tick, good)
	);

	CREATE TABLE IF NOT EXISTS jobs (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		job TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick, job)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun records a new run and returns its ID.
func (db *DB) BeginRun(seed int64, scenario string) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, seed, started_at, scenario) VALUES (?, ?, ?, ?)",
		id, seed, time.Now().UTC().Format(time.RFC3339), scenario,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveSnapshot writes one tick's aggregates, price rows, and job histogram.
func (db *DB) SaveSnapshot(runID string, snap economy.Snapshot) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO ticks
		(run_id, tick, market_money, agent_money, avg_satisfaction)
		VALUES (?, ?, ?, ?, ?)`,
		runID, snap.Tick, snap.MarketMoney, snap.AgentMoney, snap.AvgSatisfaction,
	)
	if err != nil {
		return fmt.Errorf("insert tick %d: %w", snap.Tick, err)
	}

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO prices
		(run_id, tick, good, cost, equilibrium_cost, original_cost,
		 inventory, production, consumption)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, name := range snap.GoodNames() {
		g := snap.Goods[name]
		_, err := stmt.Exec(
			runID, snap.Tick, name,
			g.Price.Cost, g.Price.EquilibriumCost, g.Price.OriginalCost,
			g.Inventory, g.Production, g.Consumption,
		)
		if err != nil {
			return fmt.Errorf("insert price %s@%d: %w", name, snap.Tick, err)
		}
	}

	for _, name := range snap.JobNames() {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO jobs (run_id, tick, job, count) VALUES (?, ?, ?, ?)",
			runID, snap.Tick, name, snap.Jobs[name],
		)
		if err != nil {
			return fmt.Errorf("insert job %s@%d: %w", name, snap.Tick, err)
		}
	}

	return tx.Commit()
}

// SaveEvents appends events to the run's log.
func (db *DB) SaveEvents(runID string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, tick, description, category) VALUES (?, ?, ?, ?)",
			runID, e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveState saves the simulation's current snapshot and any new events.
func (db *DB) SaveState(runID string, sim *engine.Simulation) error {
	snap := sim.Snapshot()
	slog.Debug("saving market state", "run", runID, "tick", snap.Tick)

	if err := db.SaveSnapshot(runID, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := db.SaveEvents(runID, sim.DrainEvents()); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

// Runs returns every recorded run, newest first.
func (db *DB) Runs() ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT id, seed, started_at, scenario FROM runs ORDER BY started_at DESC, rowid DESC")
	return runs, err
}

// LatestRun returns the most recently started run.
func (db *DB) LatestRun() (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT id, seed, started_at, scenario FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1")
	return run, err
}

// PriceHistory returns a good's saved price rows in tick order.
func (db *DB) PriceHistory(runID, good string) ([]PricePoint, error) {
	var points []PricePoint
	err := db.conn.Select(&points, `SELECT tick, cost, equilibrium_cost, original_cost,
		inventory, production, consumption
		FROM prices WHERE run_id = ? AND good = ? ORDER BY tick`,
		runID, good,
	)
	return points, err
}

// JobHistory returns a job's saved headcounts in tick order.
func (db *DB) JobHistory(runID, job string) ([]JobPoint, error) {
	var points []JobPoint
	err := db.conn.Select(&points,
		"SELECT tick, count FROM jobs WHERE run_id = ? AND job = ? ORDER BY tick",
		runID, job,
	)
	return points, err
}

// RecentEvents returns the most recent N events of a run.
func (db *DB) RecentEvents(runID string, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, description, category FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		runID, limit,
	)
	return events, err
}
