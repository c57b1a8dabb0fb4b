package epidemic

import (
	"fmt"
	"sort"
)

// Run represents one simulated outbreak season.
// All slices share the same length (the simulation horizon in days) and
// are never mutated after the simulator returns the run.
type Run struct {
	// Year is the season index, starting at 0. Order is meaningful:
	// each year is a distinct season.
	Year int
	// PopulationSize is the closed population N the season was simulated over.
	PopulationSize int
	// StartDay is the day the first infections were seeded.
	// A start day at or past the horizon means the season had no outbreak.
	StartDay int
	// Susceptible holds the daily susceptible compartment counts.
	Susceptible []int
	// Infectious holds the daily infectious compartment counts.
	Infectious []int
	// Removed holds the daily removed compartment counts.
	Removed []int
	// NewInfections holds the daily count of newly infected individuals.
	NewInfections []int
	// ReportedCases holds the daily count of reported cases. Reporting is a
	// delayed, thinned subset of new infections.
	ReportedCases []int
}

// Days returns the simulation horizon of the run.
func (r *Run) Days() int {
	return len(r.Susceptible)
}

// Clone returns a deep copy of the run to avoid leaking internal references.
func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}

	cloned := *r
	cloned.Susceptible = append([]int(nil), r.Susceptible...)
	cloned.Infectious = append([]int(nil), r.Infectious...)
	cloned.Removed = append([]int(nil), r.Removed...)
	cloned.NewInfections = append([]int(nil), r.NewInfections...)
	cloned.ReportedCases = append([]int(nil), r.ReportedCases...)

	return &cloned
}

// CheckConservation verifies that every day satisfies S+I+R == N with
// non-negative compartments, and that reported cases never outrun the
// cumulative number of infections.
func (r *Run) CheckConservation() error {
	cumulativeInfections := 0
	cumulativeReported := 0

	for t := 0; t < r.Days(); t++ {
		s, i, rem := r.Susceptible[t], r.Infectious[t], r.Removed[t]
		if s < 0 || i < 0 || rem < 0 {
			return fmt.Errorf("year %d, day %d: negative compartment (S=%d, I=%d, R=%d)", r.Year, t, s, i, rem)
		}

		if total := s + i + rem; total != r.PopulationSize {
			return fmt.Errorf("year %d, day %d: S+I+R = %d, want %d", r.Year, t, total, r.PopulationSize)
		}

		cumulativeInfections += r.NewInfections[t]
		cumulativeReported += r.ReportedCases[t]

		if cumulativeReported > cumulativeInfections {
			return fmt.Errorf("year %d, day %d: %d cases reported but only %d infections occurred",
				r.Year, t, cumulativeReported, cumulativeInfections)
		}
	}

	return nil
}

// CumulativeReported returns the running total of reported cases per day.
func (r *Run) CumulativeReported() []int {
	out := make([]int, r.Days())

	total := 0
	for t, c := range r.ReportedCases {
		total += c
		out[t] = total
	}

	return out
}

// Dataset is a multi-year collection of runs ordered by year.
type Dataset struct {
	// Runs holds one entry per simulated season, ordered by year.
	Runs []Run
}

// Years returns the sorted list of season indices present in the dataset.
func (d *Dataset) Years() []int {
	years := make([]int, 0, len(d.Runs))
	for i := range d.Runs {
		years = append(years, d.Runs[i].Year)
	}

	sort.Ints(years)

	return years
}

// Run returns the run for the given year, or nil if the dataset has none.
func (d *Dataset) Run(year int) *Run {
	for i := range d.Runs {
		if d.Runs[i].Year == year {
			return &d.Runs[i]
		}
	}

	return nil
}
