package population

import (
	"errors"
	"fmt"
	"math"

	"github.com/oshokin/absentee-alarm/internal/sampler"
)

// GeneratorConfig controls the synthetic cohort generator.
type GeneratorConfig struct {
	// Catchments is the number of catchment areas.
	Catchments int `yaml:"catchments"`
	// HouseholdsPerCatchment is the number of households in each catchment.
	HouseholdsPerCatchment int `yaml:"households_per_catchment"`
	// SchoolsPerCatchment is the number of schools in each catchment.
	SchoolsPerCatchment int `yaml:"schools_per_catchment"`
	// MeanHouseholdSize is the average number of individuals per household.
	MeanHouseholdSize float64 `yaml:"mean_household_size"`
	// SchoolAgeFraction is the probability an individual is school-age.
	SchoolAgeFraction float64 `yaml:"school_age_fraction"`
}

// ErrInvalidConfig indicates a generator parameter that fails validation.
var ErrInvalidConfig = errors.New("invalid population configuration")

// Validate fails fast on the first invalid parameter, naming it and its value.
func (c *GeneratorConfig) Validate() error {
	switch {
	case c.Catchments <= 0:
		return fmt.Errorf("%w: catchments = %d, must be positive", ErrInvalidConfig, c.Catchments)
	case c.HouseholdsPerCatchment <= 0:
		return fmt.Errorf("%w: households_per_catchment = %d, must be positive",
			ErrInvalidConfig, c.HouseholdsPerCatchment)
	case c.SchoolsPerCatchment <= 0:
		return fmt.Errorf("%w: schools_per_catchment = %d, must be positive",
			ErrInvalidConfig, c.SchoolsPerCatchment)
	case c.MeanHouseholdSize < 1:
		return fmt.Errorf("%w: mean_household_size = %g, must be at least 1", ErrInvalidConfig, c.MeanHouseholdSize)
	case c.SchoolAgeFraction < 0 || c.SchoolAgeFraction > 1:
		return fmt.Errorf("%w: school_age_fraction = %g, must be in [0, 1]", ErrInvalidConfig, c.SchoolAgeFraction)
	}

	return nil
}

// Adult sub-category split applied to non-school-age individuals.
const (
	preschoolShare = 0.1
	seniorShare    = 0.2
)

// Generate builds one cohort per requested year. Household sizes are
// 1 + a gamma-distributed surplus so the mean matches the configuration
// while allowing realistic overdispersion; each school-age individual is
// assigned to a uniformly chosen school within the household's catchment.
func Generate(cfg GeneratorConfig, years []int, smp sampler.Sampler) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table := &Table{}

	nextIndividual := 1
	nextHousehold := 1

	for _, year := range years {
		for catchment := 1; catchment <= cfg.Catchments; catchment++ {
			firstSchool := (catchment-1)*cfg.SchoolsPerCatchment + 1

			for h := 0; h < cfg.HouseholdsPerCatchment; h++ {
				size := householdSize(cfg.MeanHouseholdSize, smp)

				for m := 0; m < size; m++ {
					ind := Individual{
						ID:          nextIndividual,
						HouseholdID: nextHousehold,
						SchoolID:    NoSchool,
						CatchmentID: catchment,
						Age:         drawAge(cfg.SchoolAgeFraction, smp),
						Year:        year,
					}

					if ind.Age == AgeSchool {
						ind.SchoolID = firstSchool + smp.UniformInt(cfg.SchoolsPerCatchment)
					}

					table.Individuals = append(table.Individuals, ind)
					nextIndividual++
				}

				nextHousehold++
			}
		}
	}

	return table, nil
}

// householdSize draws 1 + Gamma-distributed surplus members.
func householdSize(mean float64, smp sampler.Sampler) int {
	if mean <= 1 {
		return 1
	}

	return 1 + int(math.Round(smp.Gamma(mean-1, 1)))
}

// drawAge assigns an age category, school-age first, then the fixed
// preschool/senior/adult split for the remainder.
func drawAge(schoolAgeFraction float64, smp sampler.Sampler) AgeCategory {
	if smp.Bernoulli(schoolAgeFraction) {
		return AgeSchool
	}

	if smp.Bernoulli(preschoolShare) {
		return AgePreschool
	}

	if smp.Bernoulli(seniorShare) {
		return AgeSenior
	}

	return AgeAdult
}
