package population

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/absentee-alarm/internal/sampler"
)

// testGeneratorConfig returns a small two-catchment scenario.
func testGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Catchments:             2,
		HouseholdsPerCatchment: 50,
		SchoolsPerCatchment:    2,
		MeanHouseholdSize:      3,
		SchoolAgeFraction:      0.4,
	}
}

// TestGeneratorValidate rejects each invalid parameter.
func TestGeneratorValidate(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*GeneratorConfig){
		"catchments": func(c *GeneratorConfig) { c.Catchments = 0 },
		"households": func(c *GeneratorConfig) { c.HouseholdsPerCatchment = 0 },
		"schools":    func(c *GeneratorConfig) { c.SchoolsPerCatchment = -1 },
		"size":       func(c *GeneratorConfig) { c.MeanHouseholdSize = 0.5 },
		"fraction":   func(c *GeneratorConfig) { c.SchoolAgeFraction = 1.2 },
	}

	for name, mutate := range cases {
		cfg := testGeneratorConfig()
		mutate(&cfg)
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, name)
	}

	cfg := testGeneratorConfig()
	require.NoError(t, cfg.Validate())
}

// TestGenerate checks cohort structure: years, memberships, school assignment.
func TestGenerate(t *testing.T) {
	t.Parallel()

	cfg := testGeneratorConfig()

	table, err := Generate(cfg, []int{0, 1}, sampler.NewSeeded(11))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, table.Years())

	for _, year := range table.Years() {
		cohort := table.Cohort(year)
		require.NotEmpty(t, cohort)
		require.Equal(t, cfg.Catchments*cfg.HouseholdsPerCatchment, table.HouseholdCount(year))

		for _, ind := range cohort {
			require.Contains(t, []int{1, 2}, ind.CatchmentID)

			if ind.Age == AgeSchool {
				// School belongs to the individual's catchment.
				require.NotEqual(t, NoSchool, ind.SchoolID)
				wantLow := (ind.CatchmentID-1)*cfg.SchoolsPerCatchment + 1
				require.GreaterOrEqual(t, ind.SchoolID, wantLow)
				require.Less(t, ind.SchoolID, wantLow+cfg.SchoolsPerCatchment)
			} else {
				require.Equal(t, NoSchool, ind.SchoolID)
			}
		}

		// With a 0.4 school-age fraction the cohort must contain students.
		require.NotEmpty(t, table.SchoolAge(year))
	}
}

// TestGenerateReproducible verifies identical tables for identical seeds.
func TestGenerateReproducible(t *testing.T) {
	t.Parallel()

	cfg := testGeneratorConfig()

	a, err := Generate(cfg, []int{0}, sampler.NewSeeded(3))
	require.NoError(t, err)

	b, err := Generate(cfg, []int{0}, sampler.NewSeeded(3))
	require.NoError(t, err)

	require.Equal(t, a, b)
}

// TestCSVRoundTrip writes a generated table and reads it back unchanged.
func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	table, err := Generate(testGeneratorConfig(), []int{0}, sampler.NewSeeded(5))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	loaded, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, table, loaded)
}

// TestReadCSVErrors rejects malformed headers and rows.
func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader("oops,household_id,school_id,catchment_id,age_category,year\n"))
	require.Error(t, err)

	bad := "individual_id,household_id,school_id,catchment_id,age_category,year\n" +
		"1,1,,1,alien,0\n"
	_, err = ReadCSV(strings.NewReader(bad))
	require.ErrorContains(t, err, "age_category")
}

// TestSchoolAgeByCatchment checks the denominator counts.
func TestSchoolAgeByCatchment(t *testing.T) {
	t.Parallel()

	table := &Table{Individuals: []Individual{
		{ID: 1, HouseholdID: 1, SchoolID: 1, CatchmentID: 1, Age: AgeSchool, Year: 0},
		{ID: 2, HouseholdID: 1, SchoolID: NoSchool, CatchmentID: 1, Age: AgeAdult, Year: 0},
		{ID: 3, HouseholdID: 2, SchoolID: 3, CatchmentID: 2, Age: AgeSchool, Year: 0},
		{ID: 4, HouseholdID: 2, SchoolID: 3, CatchmentID: 2, Age: AgeSchool, Year: 0},
	}}

	counts := table.SchoolAgeByCatchment(0)
	require.Equal(t, map[int]int{1: 1, 2: 2}, counts)
	require.Equal(t, 2, table.SchoolCount(0))
	require.Equal(t, 2, table.HouseholdCount(0))
}
