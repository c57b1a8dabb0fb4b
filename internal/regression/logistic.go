package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrFitFailure indicates the fit did not produce a usable model: the
// working system was singular, the coefficients diverged, or the
// iterations never converged. Callers are expected to recover locally.
var ErrFitFailure = errors.New("logistic fit failed")

const (
	// maxIterations bounds the IRLS loop.
	maxIterations = 50
	// tolerance is the relative coefficient-change threshold for convergence.
	tolerance = 1e-8
	// minWorkingWeight keeps the working weights away from zero when fitted
	// probabilities saturate.
	minWorkingWeight = 1e-10
	// maxExponent clamps the linear predictor before exponentiation.
	maxExponent = 30
)

// Model is a fitted logistic regression.
type Model struct {
	// Coefficients holds one weight per design-matrix column.
	Coefficients []float64
}

// Predict returns the predicted probability for one design row.
func (m *Model) Predict(row []float64) float64 {
	eta := 0.0
	for j, b := range m.Coefficients {
		eta += b * row[j]
	}

	return sigmoid(eta)
}

// Fit estimates logistic-regression coefficients for binary outcomes y
// against the design matrix x using iteratively reweighted least squares.
// The function is pure: all state is local to the call, so concurrent fits
// are safe.
func Fit(x mat.Matrix, y []float64) (*Model, error) {
	n, p := x.Dims()

	switch {
	case n != len(y):
		return nil, fmt.Errorf("%w: %d design rows but %d outcomes", ErrFitFailure, n, len(y))
	case n < p:
		return nil, fmt.Errorf("%w: %d rows cannot identify %d parameters", ErrFitFailure, n, p)
	}

	var (
		beta = mat.NewVecDense(p, nil)
		next = mat.NewVecDense(p, nil)
		eta  = mat.NewVecDense(n, nil)
		// Weighted working system: a = sqrt(W)·X, b = sqrt(W)·z.
		a  = mat.NewDense(n, p, nil)
		b  = mat.NewVecDense(n, nil)
		qr mat.QR
	)

	for iter := 0; iter < maxIterations; iter++ {
		eta.MulVec(x, beta)

		for i := 0; i < n; i++ {
			e := eta.AtVec(i)
			mu := sigmoid(e)

			w := mu * (1 - mu)
			if w < minWorkingWeight {
				w = minWorkingWeight
			}

			sw := math.Sqrt(w)
			z := e + (y[i]-mu)/w

			for j := 0; j < p; j++ {
				a.Set(i, j, sw*x.At(i, j))
			}

			b.SetVec(i, sw*z)
		}

		qr.Factorize(a)

		if err := qr.SolveVecTo(next, false, b); err != nil {
			return nil, fmt.Errorf("%w: singular working system: %w", ErrFitFailure, err)
		}

		delta := 0.0

		for j := 0; j < p; j++ {
			v := next.AtVec(j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: coefficients diverged at iteration %d", ErrFitFailure, iter)
			}

			d := v - beta.AtVec(j)
			delta += d * d
		}

		beta.CopyVec(next)

		if math.Sqrt(delta) < tolerance*(1+mat.Norm(beta, 2)) {
			coefficients := make([]float64, p)
			for j := 0; j < p; j++ {
				coefficients[j] = beta.AtVec(j)
			}

			return &Model{Coefficients: coefficients}, nil
		}
	}

	return nil, fmt.Errorf("%w: no convergence after %d iterations", ErrFitFailure, maxIterations)
}

// sigmoid is the logistic function with a clamped argument.
func sigmoid(eta float64) float64 {
	if eta > maxExponent {
		eta = maxExponent
	}

	if eta < -maxExponent {
		eta = -maxExponent
	}

	return 1 / (1 + math.Exp(-eta))
}
