package runner

import (
	"context"
	"fmt"

	"github.com/oshokin/absentee-alarm/internal/config"
	"github.com/oshokin/absentee-alarm/internal/domain/epidemic"
	"github.com/oshokin/absentee-alarm/internal/evaluation"
	"github.com/oshokin/absentee-alarm/internal/logger"
	"github.com/oshokin/absentee-alarm/internal/population"
	"github.com/oshokin/absentee-alarm/internal/sampler"
	"github.com/oshokin/absentee-alarm/internal/signal"
	"github.com/oshokin/absentee-alarm/internal/simulation"
)

// Options controls one evaluation run.
type Options struct {
	// ConfigPath specifies the path to the scenario YAML file.
	ConfigPath string
	// Seed overrides the scenario seed when non-zero.
	Seed uint64
	// OutputDir is an optional directory for CSV result export.
	OutputDir string
}

// Run executes the full pipeline: simulate the epidemic, build or load the
// population, compile the absenteeism signal, and evaluate the alarm grid.
// All randomness flows from the single scenario seed.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "runner")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}

	if opts.Seed != 0 {
		cfg.Simulation.Seed = opts.Seed
	}

	smp := sampler.NewSeeded(cfg.Simulation.Seed)

	epi, err := simulation.Simulate(cfg.Simulation, smp)
	if err != nil {
		return fmt.Errorf("simulate epidemic: %w", err)
	}

	logger.InfoKV(ctx, "Epidemic simulated",
		"years", len(epi.Runs), "horizon_days", cfg.Simulation.HorizonDays, "seed", cfg.Simulation.Seed)

	pop, err := loadPopulation(ctx, cfg, epi, smp)
	if err != nil {
		return err
	}

	compiled, err := signal.Compile(cfg.Signal, epi, pop, smp)
	if err != nil {
		return fmt.Errorf("compile absenteeism signal: %w", err)
	}

	logger.InfoKV(ctx, "Absenteeism signal compiled", "records", len(compiled.Records))

	result, err := evaluation.Evaluate(ctx, cfg.Evaluation, compiled)
	if err != nil {
		return fmt.Errorf("evaluate alarm grid: %w", err)
	}

	reportBestModels(ctx, result)

	if opts.OutputDir != "" {
		if err := exportResults(opts.OutputDir, result); err != nil {
			return fmt.Errorf("export results: %w", err)
		}

		logger.InfoKV(ctx, "Results exported", "directory", opts.OutputDir)
	}

	return nil
}

// loadPopulation reads the external population CSV when configured and
// falls back to the synthetic generator otherwise.
func loadPopulation(
	ctx context.Context,
	cfg *config.Config,
	epi *epidemic.Dataset,
	smp sampler.Sampler,
) (*population.Table, error) {
	if cfg.PopulationFile != "" {
		table, err := population.LoadCSV(cfg.PopulationFile)
		if err != nil {
			return nil, fmt.Errorf("load population: %w", err)
		}

		logger.InfoKV(ctx, "Population loaded", "file", cfg.PopulationFile, "individuals", len(table.Individuals))

		return table, nil
	}

	table, err := population.Generate(cfg.Population, epi.Years(), smp)
	if err != nil {
		return nil, fmt.Errorf("generate population: %w", err)
	}

	logger.InfoKV(ctx, "Population generated", "individuals", len(table.Individuals))

	return table, nil
}

// reportBestModels logs the winning cell per metric.
func reportBestModels(ctx context.Context, result *evaluation.Result) {
	for _, metric := range evaluation.Metrics() {
		key, ok := result.BestModels[metric]
		if !ok {
			logger.WarnKV(ctx, "No usable cell for metric", "metric", metric)

			continue
		}

		cell := result.Cell(key.Lag, key.Threshold)

		logger.InfoKV(ctx, "Best model selected",
			"metric", metric, "lag", key.Lag, "threshold", key.Threshold, "score", cell.Score(metric).Float64)
	}
}
