package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/mini-market/internal/api"
	"github.com/talgya/mini-market/internal/config"
	"github.com/talgya/mini-market/internal/engine"
	"github.com/talgya/mini-market/internal/entropy"
	"github.com/talgya/mini-market/internal/persistence"
	"github.com/talgya/mini-market/internal/population"
)

type runOptions struct {
	configPath string
	ticks      uint64
	seed       int64
	dbPath     string
	port       int
	interval   time.Duration
	logLevel   string
	archive    string
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a market scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runMarket(cmd.Context(), cfg, opts.archive)
		},
	}

	addScenarioFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite file for run history (empty disables)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "HTTP API port (0 disables)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Wall-clock time per tick")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, or error")
	cmd.Flags().StringVar(&opts.archive, "archive", "", "Write every tick's snapshot to this zstd archive")
	return cmd
}

// addScenarioFlags registers the flags shared by run and watch.
func addScenarioFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Scenario YAML file (default: built-in Fish/Lumber scenario)")
	cmd.Flags().Uint64VarP(&opts.ticks, "ticks", "n", 0, "Ticks to run; 0 runs until interrupted")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Random seed; 0 draws one from the OS")
}

// resolveConfig layers scenario file, environment, then explicit flags.
func resolveConfig(cmd *cobra.Command, opts runOptions) (*config.Config, error) {
	cfg, err := loadScenario(opts.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("ticks") {
		cfg.Ticks = opts.ticks
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("db") {
		cfg.DBPath = opts.dbPath
	}
	if flags.Changed("port") {
		cfg.APIPort = opts.port
	}
	if flags.Changed("interval") {
		cfg.Interval = opts.interval
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

func loadScenario(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		cfg.ApplyDefaults()
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading scenario: %w", err)
	}
	return cfg, nil
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
	return nil
}

// newSimulation seeds the random source and builds the market a scenario describes.
func newSimulation(cfg *config.Config) (*engine.Simulation, int64, error) {
	rng := entropy.New(cfg.Seed)
	seed := rng.Seed()
	market, err := population.Build(cfg, seed)
	if err != nil {
		return nil, 0, fmt.Errorf("building market: %w", err)
	}
	return engine.NewSimulation(market, rng), seed, nil
}

func runMarket(parent context.Context, cfg *config.Config, archivePath string) error {
	if err := setupLogging(cfg.LogLevel); err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}

	// ── Market ──────────────────────────────────────────────────────
	sim, seed, err := newSimulation(cfg)
	if err != nil {
		return err
	}
	slog.Info("marketsim starting",
		"seed", seed,
		"ticks", cfg.Ticks,
		"goods", len(cfg.Goods),
		"agents", len(sim.Market.Agents),
		"jobs", engine.FormatJobs(sim.Snapshot()),
	)

	// ── Run history (optional) ──────────────────────────────────────
	var db *persistence.DB
	var runID string
	if cfg.DBPath != "" {
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating db dir: %w", err)
			}
		}
		db, err = persistence.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		scenario, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("encoding scenario: %w", err)
		}
		runID, err = db.BeginRun(seed, string(scenario))
		if err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
		slog.Info("database opened", "path", cfg.DBPath, "run", runID)
	}

	// ── Snapshot archive (optional) ─────────────────────────────────
	var archive *persistence.ArchiveWriter
	if archivePath != "" {
		archive, err = persistence.CreateArchive(archivePath, persistence.ArchiveHeader{RunID: runID, Seed: seed})
		if err != nil {
			return fmt.Errorf("creating archive: %w", err)
		}
		defer func() {
			if err := archive.Close(); err != nil {
				slog.Error("failed to close archive", "path", archivePath, "error", err)
			}
			slog.Info("archive written", "path", archivePath, "ticks", archive.Len())
		}()
	}

	// ── Engine ──────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.MaxTicks = cfg.Ticks
	eng.Interval = cfg.Interval
	eng.ReportEvery = cfg.ReportEvery
	eng.SaveEvery = cfg.SaveEvery

	var srv *api.Server
	eng.OnTick = func(tick uint64) {
		sim.Tick(tick)
		if archive == nil && srv == nil {
			return
		}
		snap := sim.Snapshot()
		if archive != nil {
			if err := archive.Append(snap); err != nil {
				slog.Error("failed to archive tick", "tick", tick, "error", err)
			}
		}
		if srv != nil {
			srv.Publish(snap)
		}
	}
	eng.OnReport = sim.Report
	save := func(tick uint64) {
		if db == nil {
			return
		}
		if err := db.SaveState(runID, sim); err != nil {
			slog.Error("failed to save market state", "tick", tick, "error", err)
		}
	}
	eng.OnSave = save

	// ── HTTP API (optional) ─────────────────────────────────────────
	if cfg.APIPort > 0 {
		srv = &api.Server{
			Sim:      sim,
			Eng:      eng,
			DB:       db,
			RunID:    runID,
			Port:     cfg.APIPort,
			AdminKey: cfg.AdminKey,
		}
		srv.Start()
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng.Run(ctx)

	// Final report and save, unless the last tick already did either.
	if eng.Tick > 0 {
		if eng.ReportEvery == 0 || eng.Tick%eng.ReportEvery != 0 {
			sim.Report(eng.Tick)
		}
		if eng.SaveEvery == 0 || eng.Tick%eng.SaveEvery != 0 {
			save(eng.Tick)
		}
	}
	slog.Info("marketsim finished", "tick", eng.Tick, "switches", sim.Statistics().TotalSwitches)
	return nil
}
