package simulation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/absentee-alarm/internal/sampler"
)

// testConfig returns a small but epidemiologically active scenario.
func testConfig() Config {
	return Config{
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
	}
}

// TestValidate rejects each invalid parameter with an identifying message.
func TestValidate(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Config){
		"population":     func(c *Config) { c.PopulationSize = 0 },
		"horizon":        func(c *Config) { c.HorizonDays = -1 },
		"transmission":   func(c *Config) { c.TransmissionRate = 0 },
		"minimum start":  func(c *Config) { c.MinimumStartDay = -1 },
		"average start":  func(c *Config) { c.AverageStartDay = 5 },
		"period":         func(c *Config) { c.InfectiousPeriodDays = 0 },
		"initial":        func(c *Config) { c.InitialInfectious = 0 },
		"reporting rate": func(c *Config) { c.ReportingRate = 1.5 },
		"lag scale":      func(c *Config) { c.ReportingLagScale = 0 },
		"years":          func(c *Config) { c.Years = 0 },
	}

	for name, mutate := range cases {
		cfg := testConfig()
		mutate(&cfg)

		err := cfg.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig, name)
	}

	cfg := testConfig()
	require.NoError(t, cfg.Validate())
}

// TestSimulateConservation verifies S+I+R == N and the reporting bound
// on every simulated day.
func TestSimulateConservation(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	ds, err := Simulate(cfg, sampler.NewSeeded(cfg.Seed))
	require.NoError(t, err)
	require.Len(t, ds.Runs, cfg.Years)

	for i := range ds.Runs {
		run := &ds.Runs[i]
		require.Equal(t, cfg.HorizonDays, run.Days())
		require.NoError(t, run.CheckConservation())
		require.GreaterOrEqual(t, run.StartDay, cfg.MinimumStartDay)
	}
}

// TestSimulateReproducible checks that identical seeds give identical datasets.
func TestSimulateReproducible(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	a, err := Simulate(cfg, sampler.NewSeeded(cfg.Seed))
	require.NoError(t, err)

	b, err := Simulate(cfg, sampler.NewSeeded(cfg.Seed))
	require.NoError(t, err)

	require.Equal(t, a, b)
}

// TestSimulateLateStart verifies that a season starting past the horizon is
// a valid all-susceptible trajectory, not an error.
func TestSimulateLateStart(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.HorizonDays = 15
	cfg.MinimumStartDay = 20
	cfg.AverageStartDay = 25
	cfg.Years = 1

	ds, err := Simulate(cfg, sampler.NewSeeded(1))
	require.NoError(t, err)

	run := &ds.Runs[0]
	require.GreaterOrEqual(t, run.StartDay, run.Days())

	for t2 := 0; t2 < run.Days(); t2++ {
		require.Equal(t, cfg.PopulationSize, run.Susceptible[t2])
		require.Zero(t, run.Infectious[t2])
		require.Zero(t, run.NewInfections[t2])
		require.Zero(t, run.ReportedCases[t2])
	}
}

// TestSimulateProducesOutbreak sanity-checks that the default scenario
// actually infects people and reports some of them.
func TestSimulateProducesOutbreak(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	ds, err := Simulate(cfg, sampler.NewSeeded(cfg.Seed))
	require.NoError(t, err)

	for i := range ds.Runs {
		run := &ds.Runs[i]

		infections := 0
		for _, v := range run.NewInfections {
			infections += v
		}

		require.Greater(t, infections, cfg.InitialInfectious)

		cumulative := run.CumulativeReported()
		require.Positive(t, cumulative[run.Days()-1])
	}
}
