// PairScan
// Entry point for the pair scanning and backtesting service

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/saltfish/pairscan/internal/backtest"
	"github.com/saltfish/pairscan/internal/coint"
	"github.com/saltfish/pairscan/internal/config"
	"github.com/saltfish/pairscan/internal/dataset"
	"github.com/saltfish/pairscan/internal/db"
	"github.com/saltfish/pairscan/internal/db/repository"
	"github.com/saltfish/pairscan/internal/domain"
	"github.com/saltfish/pairscan/internal/report"
	"github.com/saltfish/pairscan/internal/scheduler"
)

// Build-time variables (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (YAML)")
	mode := flag.String("mode", "backtest", "Run mode: scan, backtest, optimize or portfolio")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	runMode := domain.RunMode(*mode)
	if !runMode.IsValid() {
		fmt.Fprintf(os.Stderr, "invalid mode %q\n", *mode)
		os.Exit(1)
	}

	logger.Info("Starting PairScan",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("environment", cfg.Env),
		zap.String("mode", runMode.String()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := run(ctx, cfg, runMode, logger); err != nil && ctx.Err() == nil {
		logger.Error("Application error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("PairScan stopped")
}

// run wires the components together and executes either one scan or the
// cron-driven rescan loop.
func run(ctx context.Context, cfg *config.Config, mode domain.RunMode, logger *zap.Logger) error {
	var repos *repository.Repositories
	if cfg.Database.Enabled {
		logger.Info("Connecting to PostgreSQL...")
		pool, err := db.NewPool(ctx, &cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		repos = repository.NewRepositories(pool)

		if recent, err := repos.ScanRun.ListRecent(ctx, 1); err != nil {
			logger.Warn("Could not read previous runs", zap.Error(err))
		} else if len(recent) > 0 {
			logger.Info("Previous run found",
				zap.String("run_id", recent[0].ID.String()),
				zap.String("mode", recent[0].Mode.String()),
				zap.Time("started_at", recent[0].StartedAt),
			)
		}
	}

	execute := func(ctx context.Context) error {
		return executeScan(ctx, cfg, mode, repos, logger)
	}

	// One-shot mode unless a rescan schedule is configured.
	if cfg.Scheduler.RescanCron == "" {
		return execute(ctx)
	}

	if err := execute(ctx); err != nil {
		logger.Error("Initial scan failed", zap.Error(err))
	}

	loop, err := scheduler.NewRescanLoop(cfg.Scheduler.RescanCron, execute, logger)
	if err != nil {
		return err
	}
	if err := loop.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// executeScan runs one full pass: load series, scan the pair universe over
// the worker pool, then write tables and optionally persist.
func executeScan(
	ctx context.Context,
	cfg *config.Config,
	mode domain.RunMode,
	repos *repository.Repositories,
	logger *zap.Logger,
) error {
	loader := dataset.NewLoader(&cfg.Data, logger)
	series, err := loader.LoadSeries()
	if err != nil {
		return fmt.Errorf("failed to load price series: %w", err)
	}

	pairs := dataset.BuildPairs(series)
	logger.Info("Built pair universe",
		zap.Int("symbols", len(series)),
		zap.Int("pairs", len(pairs)),
	)

	tester := coint.NewTester(logger)
	engine := backtest.NewEngine(logger, cfg.Strategy.ZWindow, cfg.Strategy.BarsPerDay)
	optimizer := backtest.NewOptimizer(
		engine,
		cfg.Strategy.Grid,
		cfg.Strategy.Params.ZStop,
		cfg.Strategy.Params.CostRate,
		logger,
	)
	pipeline := scheduler.NewRunPipeline(tester, engine, optimizer, mode, cfg.Strategy.Params, logger)
	sched := scheduler.NewScheduler(&cfg.Scheduler, pipeline, logger)

	// The run row is created before scanning so an in-progress run is
	// visible in the database, then marked complete after persisting.
	run := domain.NewScanRun(mode)
	if repos != nil {
		if err := repos.ScanRun.Create(ctx, run); err != nil {
			logger.Error("Failed to record run start", zap.Error(err))
		}
	}

	outcomes := sched.Run(ctx, run, pairs)

	var portfolio *domain.PortfolioMetrics
	if mode.Includes(domain.RunModePortfolio) {
		var perPair []domain.Series
		for _, o := range outcomes {
			if o.Optimized != nil && o.Optimized.Result != nil {
				perPair = append(perPair, o.Optimized.Result.NetReturns)
			}
		}
		metrics, _, err := backtest.Aggregate(perPair, cfg.Strategy.BarsPerDay)
		if err != nil {
			logger.Warn("Portfolio aggregation produced no result", zap.Error(err))
		} else {
			portfolio = metrics
		}
	}

	writer := report.NewWriter(cfg.Report.OutputDir, logger)
	if err := writer.WriteAll(outcomes, portfolio); err != nil {
		return fmt.Errorf("failed to write result tables: %w", err)
	}
	report.LogSummary(logger, run, outcomes)

	if repos != nil {
		if err := persistRun(ctx, repos, run, outcomes); err != nil {
			logger.Error("Failed to persist run", zap.Error(err))
		}
	}

	return ctx.Err()
}

// persistRun saves the report rows and marks the run row finished.
func persistRun(
	ctx context.Context,
	repos *repository.Repositories,
	run *domain.ScanRun,
	outcomes []*domain.PairOutcome,
) error {
	if err := repos.PairReport.CreateBatch(ctx, run.ID, report.Ranked(outcomes)); err != nil {
		return err
	}
	return repos.ScanRun.Complete(ctx, run)
}

// initLogger initializes the zap logger based on configuration.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Logging.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Logging.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	if cfg.Logging.OutputPath != "" && cfg.Logging.OutputPath != "stdout" {
		zapCfg.OutputPaths = []string{cfg.Logging.OutputPath}
	}

	return zapCfg.Build()
}
