package epidemic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testRun builds a tiny three-day season satisfying all invariants.
func testRun() *Run {
	return &Run{
		Year:           0,
		PopulationSize: 10,
		StartDay:       1,
		Susceptible:    []int{10, 8, 7},
		Infectious:     []int{0, 2, 2},
		Removed:        []int{0, 0, 1},
		NewInfections:  []int{0, 2, 1},
		ReportedCases:  []int{0, 1, 1},
	}
}

// TestCheckConservation accepts a consistent run and rejects broken ones.
func TestCheckConservation(t *testing.T) {
	t.Parallel()

	r := testRun()
	require.NoError(t, r.CheckConservation())

	// Broken compartment sum.
	broken := r.Clone()
	broken.Removed[2] = 5
	require.Error(t, broken.CheckConservation())

	// Negative compartment.
	broken = r.Clone()
	broken.Susceptible[1] = -1
	require.Error(t, broken.CheckConservation())

	// Reports outrunning infections.
	broken = r.Clone()
	broken.ReportedCases[0] = 3
	require.Error(t, broken.CheckConservation())
}

// TestRunClone verifies deep copies and nil safety.
func TestRunClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, (*Run)(nil).Clone())

	r := testRun()
	c := r.Clone()
	require.Equal(t, r, c)
	require.NotSame(t, r, c)

	c.Susceptible[0] = 0
	require.Equal(t, 10, r.Susceptible[0])
}

// TestCumulativeReported checks the running total.
func TestCumulativeReported(t *testing.T) {
	t.Parallel()

	r := testRun()
	require.Equal(t, []int{0, 1, 2}, r.CumulativeReported())
}

// TestDatasetAccessors covers Years and per-year lookup.
func TestDatasetAccessors(t *testing.T) {
	t.Parallel()

	ds := &Dataset{Runs: []Run{*testRun()}}
	ds.Runs = append(ds.Runs, Run{Year: 1, PopulationSize: 10})

	require.Equal(t, []int{0, 1}, ds.Years())
	require.NotNil(t, ds.Run(1))
	require.Nil(t, ds.Run(7))
}
