package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// syntheticData draws n observations from a known logistic model.
func syntheticData(n int, beta []float64, seed uint64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))

	p := len(beta)
	x := mat.NewDense(n, p, nil)
	y := make([]float64, n)

	for i := 0; i < n; i++ {
		eta := beta[0]
		x.Set(i, 0, 1)

		for j := 1; j < p; j++ {
			v := rng.NormFloat64()
			x.Set(i, j, v)
			eta += beta[j] * v
		}

		if rng.Float64() < 1/(1+math.Exp(-eta)) {
			y[i] = 1
		}
	}

	return x, y
}

// TestFitRecoversCoefficients checks the fit lands near the generating model.
func TestFitRecoversCoefficients(t *testing.T) {
	t.Parallel()

	truth := []float64{-1, 0.8, -0.5}
	x, y := syntheticData(5000, truth, 42)

	model, err := Fit(x, y)
	require.NoError(t, err)
	require.Len(t, model.Coefficients, len(truth))

	for j, want := range truth {
		require.InDelta(t, want, model.Coefficients[j], 0.2)
	}
}

// TestFitDeterministic verifies identical inputs give identical models.
func TestFitDeterministic(t *testing.T) {
	t.Parallel()

	x, y := syntheticData(1000, []float64{-0.5, 1}, 7)

	a, err := Fit(x, y)
	require.NoError(t, err)

	b, err := Fit(x, y)
	require.NoError(t, err)

	require.Equal(t, a, b)
}

// TestFitCollinearColumns fails with ErrFitFailure on a singular design.
func TestFitCollinearColumns(t *testing.T) {
	t.Parallel()

	x, y := syntheticData(200, []float64{0, 1}, 9)

	// Duplicate the covariate column to force rank deficiency.
	n, _ := x.Dims()
	bad := mat.NewDense(n, 3, nil)

	for i := 0; i < n; i++ {
		bad.Set(i, 0, x.At(i, 0))
		bad.Set(i, 1, x.At(i, 1))
		bad.Set(i, 2, x.At(i, 1))
	}

	_, err := Fit(bad, y)
	require.ErrorIs(t, err, ErrFitFailure)
}

// TestFitDimensionMismatch rejects inconsistent inputs.
func TestFitDimensionMismatch(t *testing.T) {
	t.Parallel()

	x := mat.NewDense(4, 2, nil)

	_, err := Fit(x, []float64{1, 0})
	require.ErrorIs(t, err, ErrFitFailure)

	// More parameters than rows.
	wide := mat.NewDense(2, 5, nil)
	_, err = Fit(wide, []float64{1, 0})
	require.ErrorIs(t, err, ErrFitFailure)
}

// TestPredictRange keeps probabilities inside (0, 1).
func TestPredictRange(t *testing.T) {
	t.Parallel()

	m := &Model{Coefficients: []float64{0, 2}}

	require.InDelta(t, 0.5, m.Predict([]float64{1, 0}), 1e-12)

	for _, v := range []float64{-100, -1, 0, 1, 100} {
		p := m.Predict([]float64{1, v})
		require.Greater(t, p, 0.0)
		require.Less(t, p, 1.0)
	}
}
