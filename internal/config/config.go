package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/absentee-alarm/internal/evaluation"
	"github.com/oshokin/absentee-alarm/internal/population"
	"github.com/oshokin/absentee-alarm/internal/signal"
	"github.com/oshokin/absentee-alarm/internal/simulation"
)

// Config is the full evaluation scenario: outbreak generator, population
// generator, absenteeism compiler, and alarm evaluator settings.
type Config struct {
	// Simulation configures the outbreak generator.
	Simulation simulation.Config `yaml:"simulation"`
	// Population configures the synthetic cohort generator.
	Population population.GeneratorConfig `yaml:"population"`
	// PopulationFile optionally points at an externally generated
	// population CSV; when set it replaces the synthetic generator.
	PopulationFile string `yaml:"population_file"`
	// Signal configures the absenteeism compiler.
	Signal signal.Config `yaml:"signal"`
	// Evaluation configures the alarm grid search.
	Evaluation evaluation.Config `yaml:"evaluation"`
}

const (
	// DefaultConfigFilename is the default scenario file name.
	DefaultConfigFilename = "absentee-alarm-scenario.yaml"

	// DefaultFilePermissions is the permission mask for written scenario files.
	DefaultFilePermissions = 0o600
)

// errConfigIsNotSet is returned when a nil configuration is provided.
var errConfigIsNotSet = errors.New("configuration is not set")

// Default returns the reference scenario with all parameters populated.
func Default() *Config {
	return &Config{
		Simulation: simulation.Config{
			PopulationSize:       1000,
			HorizonDays:          100,
			TransmissionRate:     0.3,
			AverageStartDay:      20,
			MinimumStartDay:      10,
			InfectiousPeriodDays: 4,
			InitialInfectious:    5,
			ReportingRate:        0.05,
			ReportingLagScale:    3,
			Years:                3,
			Seed:                 42,
		},
		Population: population.GeneratorConfig{
			Catchments:             2,
			HouseholdsPerCatchment: 60,
			SchoolsPerCatchment:    2,
			MeanHouseholdSize:      3,
			SchoolAgeFraction:      0.4,
		},
		Signal: signal.Config{
			AbsenceWindowDays:          3,
			SickAbsenceProbability:     0.95,
			BaselineAbsenceProbability: 0.05,
			WindowStartCases:           2,
			ReferenceDayOfYear:         245,
		},
		Evaluation: evaluation.Config{
			MaxLag:     5,
			Thresholds: []float64{0.2, 0.4, 0.6},
			Curve:      evaluation.ScoreCurve{EarlyDecay: 0.2, LateDecay: 0.1},
		},
	}
}

// Load reads a scenario from the provided path and validates every section.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the scenario to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}

	return nil
}

// Validate fails fast on the first invalid section, preserving the
// per-parameter detail of the section's own validation.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := cfg.Simulation.Validate(); err != nil {
		return err
	}

	// The population section is only exercised when no external CSV is set.
	if cfg.PopulationFile == "" {
		if err := cfg.Population.Validate(); err != nil {
			return err
		}
	}

	if err := cfg.Signal.Validate(); err != nil {
		return err
	}

	return cfg.Evaluation.Validate()
}
