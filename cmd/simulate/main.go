// Package main provides the entry point for the retirement simulation CLI.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/retiresim/internal/cma"
	"github.com/yourusername/retiresim/internal/config"
	"github.com/yourusername/retiresim/internal/logger"
	"github.com/yourusername/retiresim/internal/metrics"
	"github.com/yourusername/retiresim/internal/simulation"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		profilePath = flag.String("profile", "", "Path to financial profile YAML (required)")
		cmaPath     = flag.String("cma", "", "Override path to capital market assumptions YAML")
		seed        = flag.Uint64("seed", 0, "Master seed (0 generates one)")
		pathCount   = flag.Int("paths", 0, "Override path count")
		deadline    = flag.Duration("deadline", 0, "Override run deadline (e.g. 30s)")
		output      = flag.String("output", "", "Override output path for JSON export")
		tradeOffs   = flag.Bool("tradeoffs", true, "Run trade-off scenarios")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel)

	if *profilePath == "" {
		log.Fatal("A -profile file is required")
	}

	if cfg.Metrics.Enabled {
		startMetricsServer(cfg, log)
	}

	engine, registeredVersion := buildEngine(cfg, *cmaPath, log)
	profile, err := simulation.LoadProfileFile(*profilePath)
	if err != nil {
		log.Fatalf("Invalid profile: %v", err)
	}

	opts := buildOptions(cfg, *seed, *pathCount, *deadline, *tradeOffs)
	version := resolveRunVersion(cfg.CMA.Version, registeredVersion)

	log.WithFields(logrus.Fields{
		"cma_version": version,
		"path_count":  opts.PathCount,
		"deadline":    opts.Deadline,
	}).Info("Starting simulation")

	outcome, err := engine.Run(context.Background(), profile, version, opts)
	if err != nil {
		switch {
		case errors.Is(err, simulation.ErrTimeoutExceeded):
			log.Fatalf("Simulation timed out: retry with fewer paths or a longer deadline: %v", err)
		default:
			log.Fatalf("Simulation failed: %v", err)
		}
	}

	fmt.Print(simulation.GenerateConsoleReport(outcome))

	outputPath := cfg.Engine.OutputPath
	if *output != "" {
		outputPath = *output
	}
	if outputPath != "" {
		export := simulation.NewExport(profile, outcome)
		if err := export.WriteFile(outputPath); err != nil {
			log.Fatalf("Failed to write export: %v", err)
		}
		log.WithField("output", outputPath).Info("Results exported")
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// buildEngine registers the configured assumption table and returns the
// engine together with the registered version, so a table loaded from file
// runs under its own version rather than the built-in default's.
func buildEngine(cfg *config.Config, cmaOverride string, log *logrus.Logger) (*simulation.Engine, string) {
	store := cma.NewStore(log)

	source := cfg.CMA.Source
	if cmaOverride != "" {
		source = cmaOverride
	}

	assumptions := cma.Default()
	if source != "" {
		loaded, err := cma.LoadFile(source)
		if err != nil {
			metrics.RecordAssumptionValidationFailure()
			log.Fatalf("Failed to load assumptions: %v", err)
		}
		assumptions = loaded
	}
	prepared, err := store.Register(assumptions)
	if err != nil {
		metrics.RecordAssumptionValidationFailure()
		log.Fatalf("Failed to register assumptions: %v", err)
	}
	logger.NewAuditLogger(log).LogAssumptionsRegistered(prepared.Version, prepared.ContentHash, len(prepared.AssetClasses))

	return simulation.NewEngine(store, log), prepared.Version
}

// resolveRunVersion prefers an explicitly configured version over the one
// just registered.
func resolveRunVersion(configured, registered string) string {
	if configured != "" {
		return configured
	}
	return registered
}

func buildOptions(cfg *config.Config, seed uint64, pathCount int, deadline time.Duration, tradeOffs bool) simulation.Options {
	opts := simulation.Options{
		MasterSeed:        cfg.Engine.MasterSeed,
		PathCount:         cfg.Engine.PathCount,
		Deadline:          cfg.Deadline(),
		Workers:           cfg.Engine.Workers,
		TrajectorySamples: cfg.Engine.TrajectorySamples,
		TradeOffs:         cfg.Engine.TradeOffsEnabled && tradeOffs,
	}
	if seed != 0 {
		opts.MasterSeed = seed
	}
	if pathCount > 0 {
		opts.PathCount = pathCount
	}
	if deadline > 0 {
		opts.Deadline = deadline
	}
	return opts
}

func startMetricsServer(cfg *config.Config, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Warn("Metrics server stopped")
		}
	}()
	log.WithField("addr", addr).Info("Metrics server listening")
}
