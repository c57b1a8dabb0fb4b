package signal

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/oshokin/absentee-alarm/internal/domain/epidemic"
	"github.com/oshokin/absentee-alarm/internal/population"
	"github.com/oshokin/absentee-alarm/internal/sampler"
)

// DaysPerYear is the astronomical year length used to normalize the
// day-of-year seasonal term.
const DaysPerYear = 365.25

// Config holds the absenteeism compiler parameters.
type Config struct {
	// AbsenceWindowDays is the trailing number of days an infection keeps
	// an individual symptomatic and likely absent.
	AbsenceWindowDays int `yaml:"absence_window_days"`
	// SickAbsenceProbability is the daily absence probability while symptomatic.
	SickAbsenceProbability float64 `yaml:"sick_absence_probability"`
	// BaselineAbsenceProbability is the daily absence probability otherwise.
	BaselineAbsenceProbability float64 `yaml:"baseline_absence_probability"`
	// WindowStartCases is the cumulative reported-case count that opens the
	// ground-truth alarm window.
	WindowStartCases int `yaml:"window_start_cases"`
	// ReferenceDayOfYear is the calendar day the school year starts on,
	// anchoring the within-year day offset for the seasonal term.
	ReferenceDayOfYear int `yaml:"reference_day_of_year"`
}

// Package-level error values.
var (
	// ErrInvalidConfig indicates a compiler parameter that fails validation.
	ErrInvalidConfig = errors.New("invalid signal configuration")
	// ErrDataMismatch indicates disagreeing epidemic and population year ranges.
	ErrDataMismatch = errors.New("epidemic and population year ranges disagree")
)

// Validate fails fast on the first invalid parameter, naming it and its value.
func (c *Config) Validate() error {
	switch {
	case c.AbsenceWindowDays < 1:
		return fmt.Errorf("%w: absence_window_days = %d, must be at least 1", ErrInvalidConfig, c.AbsenceWindowDays)
	case c.SickAbsenceProbability < 0 || c.SickAbsenceProbability > 1:
		return fmt.Errorf("%w: sick_absence_probability = %g, must be in [0, 1]",
			ErrInvalidConfig, c.SickAbsenceProbability)
	case c.BaselineAbsenceProbability < 0 || c.BaselineAbsenceProbability > 1:
		return fmt.Errorf("%w: baseline_absence_probability = %g, must be in [0, 1]",
			ErrInvalidConfig, c.BaselineAbsenceProbability)
	case c.WindowStartCases < 1:
		return fmt.Errorf("%w: window_start_cases = %d, must be at least 1", ErrInvalidConfig, c.WindowStartCases)
	case c.ReferenceDayOfYear < 0 || float64(c.ReferenceDayOfYear) >= DaysPerYear:
		return fmt.Errorf("%w: reference_day_of_year = %d, must be in [0, 365]", ErrInvalidConfig, c.ReferenceDayOfYear)
	}

	return nil
}

// Record is one compiled row per (day, school year).
// Records are derived deterministically from the epidemic dataset and the
// population table and never mutated after compilation.
type Record struct {
	// Year is the season the record belongs to.
	Year int
	// Day is the day index within the season.
	Day int
	// DayOfYear is the calendar day offset, normalized against DaysPerYear.
	DayOfYear float64
	// AbsenteeismProportion is the fraction of school-age individuals absent.
	AbsenteeismProportion float64
	// TrueCaseCount is the number of cases reported that day.
	TrueCaseCount int
	// InTrueWindow reports membership in the season's true alarm window.
	InTrueWindow bool
}

// Dataset is the compiled absenteeism dataset: one record per (day, year),
// ordered by year then day, plus the per-year ground-truth windows.
type Dataset struct {
	// Records holds all compiled rows.
	Records []Record
	// Windows maps each year to its true alarm window.
	Windows map[int]Window
}

// Years returns the sorted list of seasons present in the dataset.
func (d *Dataset) Years() []int {
	years := make([]int, 0, len(d.Windows))
	for y := range d.Windows {
		years = append(years, y)
	}

	sort.Ints(years)

	return years
}

// YearRecords returns the records of one season in day order.
func (d *Dataset) YearRecords(year int) []Record {
	var out []Record

	for i := range d.Records {
		if d.Records[i].Year == year {
			out = append(out, d.Records[i])
		}
	}

	return out
}

// Compile turns the epidemic dataset plus the population table into the
// daily absenteeism observable. Each school-age individual is counted
// symptomatic with probability equal to the recent-infection prevalence and
// then absent with the sick or baseline probability. A catchment with no
// school-age individuals contributes a zero signal, which is valid.
func Compile(cfg Config, epi *epidemic.Dataset, pop *population.Table, smp sampler.Sampler) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := checkYearRanges(epi, pop); err != nil {
		return nil, err
	}

	ds := &Dataset{Windows: make(map[int]Window, len(epi.Runs))}

	for i := range epi.Runs {
		run := &epi.Runs[i]
		students := pop.SchoolAge(run.Year)
		window := windowForRun(run, cfg.WindowStartCases)
		ds.Windows[run.Year] = window

		for day := 0; day < run.Days(); day++ {
			prevalence := recentPrevalence(run, day, cfg.AbsenceWindowDays)

			ds.Records = append(ds.Records, Record{
				Year:                  run.Year,
				Day:                   day,
				DayOfYear:             math.Mod(float64(cfg.ReferenceDayOfYear+day), DaysPerYear),
				AbsenteeismProportion: absentFraction(cfg, students, prevalence, smp),
				TrueCaseCount:         run.ReportedCases[day],
				InTrueWindow:          window.Contains(day),
			})
		}
	}

	return ds, nil
}

// checkYearRanges verifies the epidemic and population cover the same years.
func checkYearRanges(epi *epidemic.Dataset, pop *population.Table) error {
	epiYears := epi.Years()
	popYears := pop.Years()

	if len(epiYears) != len(popYears) {
		return fmt.Errorf("%w: epidemic has %v, population has %v", ErrDataMismatch, epiYears, popYears)
	}

	for i := range epiYears {
		if epiYears[i] != popYears[i] {
			return fmt.Errorf("%w: epidemic has %v, population has %v", ErrDataMismatch, epiYears, popYears)
		}
	}

	return nil
}

// recentPrevalence is the fraction of the population infected within the
// trailing symptomatic window ending at day.
func recentPrevalence(run *epidemic.Run, day, windowDays int) float64 {
	from := day - windowDays + 1
	if from < 0 {
		from = 0
	}

	recent := 0
	for t := from; t <= day; t++ {
		recent += run.NewInfections[t]
	}

	return float64(recent) / float64(run.PopulationSize)
}

// absentFraction draws each student's symptomatic state and absence and
// returns the absent proportion. Zero students yield a zero signal.
func absentFraction(cfg Config, students []population.Individual, prevalence float64, smp sampler.Sampler) float64 {
	if len(students) == 0 {
		return 0
	}

	absent := 0

	for range students {
		p := cfg.BaselineAbsenceProbability
		if smp.Bernoulli(prevalence) {
			p = cfg.SickAbsenceProbability
		}

		if smp.Bernoulli(p) {
			absent++
		}
	}

	return float64(absent) / float64(len(students))
}
