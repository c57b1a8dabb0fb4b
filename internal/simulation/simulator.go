package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/oshokin/absentee-alarm/internal/domain/epidemic"
	"github.com/oshokin/absentee-alarm/internal/sampler"
)

// Config holds the outbreak generator parameters for one scenario.
type Config struct {
	// PopulationSize is the closed population N.
	PopulationSize int `yaml:"population_size"`
	// HorizonDays is the number of simulated days per season.
	HorizonDays int `yaml:"horizon_days"`
	// TransmissionRate is the per-day transmission coefficient alpha in
	// p(t) = 1 - exp(-alpha * I/N).
	TransmissionRate float64 `yaml:"transmission_rate"`
	// AverageStartDay is the mean season start day.
	AverageStartDay int `yaml:"average_start_day"`
	// MinimumStartDay is the floor for the jittered season start day.
	MinimumStartDay int `yaml:"minimum_start_day"`
	// InfectiousPeriodDays is the fixed infectious duration.
	InfectiousPeriodDays int `yaml:"infectious_period_days"`
	// InitialInfectious is the number of infections seeded on the start day.
	InitialInfectious int `yaml:"initial_infectious"`
	// ReportingRate is the probability an infection is ever reported.
	ReportingRate float64 `yaml:"reporting_rate"`
	// ReportingLagScale is the mean of the exponential reporting delay in days.
	ReportingLagScale float64 `yaml:"reporting_lag_scale"`
	// Years is the number of independent seasons to simulate.
	Years int `yaml:"years"`
	// Seed drives every random draw of the scenario.
	Seed uint64 `yaml:"seed"`
}

// ErrInvalidConfig indicates an outbreak generator parameter that fails validation.
var ErrInvalidConfig = errors.New("invalid simulation configuration")

// Validate fails fast on the first invalid parameter, naming it and its value.
func (c *Config) Validate() error {
	switch {
	case c.PopulationSize <= 0:
		return fmt.Errorf("%w: population_size = %d, must be positive", ErrInvalidConfig, c.PopulationSize)
	case c.HorizonDays <= 0:
		return fmt.Errorf("%w: horizon_days = %d, must be positive", ErrInvalidConfig, c.HorizonDays)
	case c.TransmissionRate <= 0:
		return fmt.Errorf("%w: transmission_rate = %g, must be positive", ErrInvalidConfig, c.TransmissionRate)
	case c.MinimumStartDay < 0:
		return fmt.Errorf("%w: minimum_start_day = %d, must be non-negative", ErrInvalidConfig, c.MinimumStartDay)
	case c.AverageStartDay < c.MinimumStartDay:
		return fmt.Errorf("%w: average_start_day = %d, must be at least minimum_start_day (%d)",
			ErrInvalidConfig, c.AverageStartDay, c.MinimumStartDay)
	case c.InfectiousPeriodDays < 1:
		return fmt.Errorf("%w: infectious_period_days = %d, must be at least 1", ErrInvalidConfig, c.InfectiousPeriodDays)
	case c.InitialInfectious < 1 || c.InitialInfectious > c.PopulationSize:
		return fmt.Errorf("%w: initial_infectious = %d, must be in [1, %d]",
			ErrInvalidConfig, c.InitialInfectious, c.PopulationSize)
	case c.ReportingRate < 0 || c.ReportingRate > 1:
		return fmt.Errorf("%w: reporting_rate = %g, must be in [0, 1]", ErrInvalidConfig, c.ReportingRate)
	case c.ReportingLagScale <= 0:
		return fmt.Errorf("%w: reporting_lag_scale = %g, must be positive", ErrInvalidConfig, c.ReportingLagScale)
	case c.Years < 1:
		return fmt.Errorf("%w: years = %d, must be at least 1", ErrInvalidConfig, c.Years)
	}

	return nil
}

// Simulate generates cfg.Years independent seasons using draws from smp.
// Every season satisfies S+I+R == N on every day.
func Simulate(cfg Config, smp sampler.Sampler) (*epidemic.Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ds := &epidemic.Dataset{Runs: make([]epidemic.Run, 0, cfg.Years)}

	for year := 0; year < cfg.Years; year++ {
		run := simulateYear(cfg, year, smp)
		if err := run.CheckConservation(); err != nil {
			return nil, fmt.Errorf("simulate year %d: %w", year, err)
		}

		ds.Runs = append(ds.Runs, run)
	}

	return ds, nil
}

// yearState threads the mutable compartment counts through the day loop.
// There is no simulation state outside this struct.
type yearState struct {
	susceptible int
	infectious  int
	removed     int
}

// rebalance clips negative compartments produced by edge draws and restores
// S+I+R == N by absorbing the difference into the removed compartment.
func (s *yearState) rebalance(n int) {
	if s.susceptible < 0 {
		s.susceptible = 0
	}

	if s.infectious < 0 {
		s.infectious = 0
	}

	s.removed = n - s.susceptible - s.infectious
}

// simulateYear runs the day-by-day compartment process for a single season.
func simulateYear(cfg Config, year int, smp sampler.Sampler) epidemic.Run {
	var (
		n     = cfg.PopulationSize
		days  = cfg.HorizonDays
		start = cfg.MinimumStartDay + smp.Poisson(float64(cfg.AverageStartDay-cfg.MinimumStartDay))
	)

	run := epidemic.Run{
		Year:           year,
		PopulationSize: n,
		StartDay:       start,
		Susceptible:    make([]int, days),
		Infectious:     make([]int, days),
		Removed:        make([]int, days),
		NewInfections:  make([]int, days),
		ReportedCases:  make([]int, days),
	}

	state := yearState{susceptible: n}

	for t := 0; t < days; t++ {
		// A start day past the horizon is a valid season without an outbreak.
		if t < start {
			run.Susceptible[t] = n

			continue
		}

		var newInfections int

		if t == start {
			newInfections = cfg.InitialInfectious
			if newInfections > state.susceptible {
				newInfections = state.susceptible
			}
		} else {
			p := 1 - math.Exp(-cfg.TransmissionRate*float64(state.infectious)/float64(n))
			newInfections = smp.Binomial(state.susceptible, p)
		}

		// Fixed infectious duration: today's removals are the infections
		// introduced exactly InfectiousPeriodDays ago.
		newRemovals := 0
		if rd := t - cfg.InfectiousPeriodDays; rd >= start && rd >= 0 {
			newRemovals = run.NewInfections[rd]
		}

		state.susceptible -= newInfections
		state.infectious += newInfections - newRemovals
		state.rebalance(n)

		run.Susceptible[t] = state.susceptible
		run.Infectious[t] = state.infectious
		run.Removed[t] = state.removed
		run.NewInfections[t] = newInfections

		reportInfections(cfg, &run, t, newInfections, smp)
	}

	return run
}

// reportInfections thins the day's infections by the reporting rate and
// spreads the reported ones over later days with an exponential delay,
// rounded and clamped to the horizon.
func reportInfections(cfg Config, run *epidemic.Run, day, infections int, smp sampler.Sampler) {
	for k := 0; k < infections; k++ {
		if !smp.Bernoulli(cfg.ReportingRate) {
			continue
		}

		reportDay := day + int(math.Round(smp.Exponential(cfg.ReportingLagScale)))
		if reportDay >= cfg.HorizonDays {
			reportDay = cfg.HorizonDays - 1
		}

		run.ReportedCases[reportDay]++
	}
}
