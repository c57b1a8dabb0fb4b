package evaluation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/oshokin/absentee-alarm/internal/logger"
	"github.com/oshokin/absentee-alarm/internal/regression"
	"github.com/oshokin/absentee-alarm/internal/signal"
)

// Config holds the alarm evaluator parameters.
type Config struct {
	// MaxLag is the largest number of trailing absenteeism days evaluated.
	MaxLag int `yaml:"max_lag"`
	// Thresholds is the set of predicted-probability alarm cutoffs.
	Thresholds []float64 `yaml:"thresholds"`
	// YearWeights optionally weights the seasons for WAATQ/WFATQ.
	// When empty, weights proportional to the year index are used.
	YearWeights []float64 `yaml:"year_weights"`
	// Curve is the alert-time-quality decay policy.
	Curve ScoreCurve `yaml:"curve"`
	// Workers bounds the number of concurrent cell evaluations.
	// Zero means one worker per available CPU.
	Workers int `yaml:"workers"`
}

// Package-level error values.
var (
	// ErrInvalidConfig indicates an evaluator parameter that fails validation.
	ErrInvalidConfig = errors.New("invalid evaluation configuration")
	// ErrInsufficientData indicates fewer than two usable years:
	// metric aggregation and model selection are undefined below that.
	ErrInsufficientData = errors.New("insufficient data")
)

// minimumYears is the smallest dataset the evaluator accepts.
const minimumYears = 2

// Validate fails fast on the first invalid parameter, naming it and its value.
func (c *Config) Validate() error {
	switch {
	case c.MaxLag < 0:
		return fmt.Errorf("%w: max_lag = %d, must be non-negative", ErrInvalidConfig, c.MaxLag)
	case len(c.Thresholds) == 0:
		return fmt.Errorf("%w: thresholds must not be empty", ErrInvalidConfig)
	case c.Curve.EarlyDecay <= 0:
		return fmt.Errorf("%w: curve.early_decay = %g, must be positive", ErrInvalidConfig, c.Curve.EarlyDecay)
	case c.Curve.LateDecay <= 0:
		return fmt.Errorf("%w: curve.late_decay = %g, must be positive", ErrInvalidConfig, c.Curve.LateDecay)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers = %d, must be non-negative", ErrInvalidConfig, c.Workers)
	}

	for _, threshold := range c.Thresholds {
		if threshold <= 0 || threshold >= 1 {
			return fmt.Errorf("%w: threshold = %g, must be in (0, 1)", ErrInvalidConfig, threshold)
		}
	}

	for _, weight := range c.YearWeights {
		if weight <= 0 {
			return fmt.Errorf("%w: year_weight = %g, must be positive", ErrInvalidConfig, weight)
		}
	}

	return nil
}

// Evaluate runs the (lag × threshold) grid search over the compiled dataset.
// Cells are evaluated concurrently; each cell fits its own detection model,
// raises alarms, and scores them against the per-year true windows. A fit
// failure marks only its cell as missing. The returned grid is ordered by
// (lag, threshold) regardless of completion order.
func Evaluate(ctx context.Context, cfg Config, ds *signal.Dataset) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	years := ds.Years()
	if len(years) < minimumYears {
		return nil, fmt.Errorf("%w: %d years, need at least %d", ErrInsufficientData, len(years), minimumYears)
	}

	weights, err := yearWeights(cfg, years)
	if err != nil {
		return nil, err
	}

	thresholds := sortedThresholds(cfg.Thresholds)
	cells := make([]Cell, 0, (cfg.MaxLag+1)*len(thresholds))

	for lag := 0; lag <= cfg.MaxLag; lag++ {
		for _, threshold := range thresholds {
			cells = append(cells, Cell{Key: CellKey{Lag: lag, Threshold: threshold}})
		}
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i := range cells {
		i := i

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			cells[i] = evaluateCell(cfg, cells[i].Key, ds, years, weights)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate grid: %w", err)
	}

	result := &Result{Grid: cells, BestModels: bestModels(cells)}

	logger.InfoKV(ctx, "Grid evaluation finished",
		"cells", len(cells), "failed_fits", result.FailedCells(), "years", len(years))

	return result, nil
}

// yearWeights resolves the per-year weights, defaulting to weights
// proportional to the year index.
func yearWeights(cfg Config, years []int) ([]float64, error) {
	if len(cfg.YearWeights) == 0 {
		weights := make([]float64, len(years))
		for i := range years {
			weights[i] = float64(i + 1)
		}

		return weights, nil
	}

	if len(cfg.YearWeights) != len(years) {
		return nil, fmt.Errorf("%w: %d year_weights for %d years",
			ErrInvalidConfig, len(cfg.YearWeights), len(years))
	}

	return cfg.YearWeights, nil
}

// sortedThresholds returns the deduplicated thresholds in ascending order.
func sortedThresholds(thresholds []float64) []float64 {
	out := append([]float64(nil), thresholds...)
	sort.Float64s(out)

	deduped := out[:0]
	for i, v := range out {
		if i == 0 || v != out[i-1] {
			deduped = append(deduped, v)
		}
	}

	return deduped
}

// evaluateCell fits the cell's detection model and scores its alarms.
// The function depends only on the compiled dataset and the cell key, so
// cells evaluate independently and reproducibly.
func evaluateCell(cfg Config, key CellKey, ds *signal.Dataset, years []int, weights []float64) Cell {
	cell := Cell{Key: key}

	x, y := designMatrix(ds, years, key.Lag)

	model, err := regression.Fit(x, y)
	if err != nil {
		cell.FitErr = err

		return cell
	}

	cell.Fitted = true
	cell.AlarmDays = raiseAlarms(model, x, ds, key.Threshold)

	scores := make([]yearScore, len(years))
	for i, year := range years {
		scores[i] = scoreYear(cell.AlarmDays[year], ds.Windows[year], cfg.Curve)
	}

	aggregate(&cell, scores, weights)

	return cell
}

// raiseAlarms predicts a daily outbreak probability for every record and
// collects the days at or above the threshold, grouped by year.
func raiseAlarms(model *regression.Model, x *mat.Dense, ds *signal.Dataset, threshold float64) map[int][]int {
	alarms := make(map[int][]int)

	for i := range ds.Records {
		rec := &ds.Records[i]
		if model.Predict(x.RawRowView(i)) >= threshold {
			alarms[rec.Year] = append(alarms[rec.Year], rec.Day)
		}
	}

	return alarms
}

// aggregate folds the per-year scores into the cell's six metrics.
func aggregate(cell *Cell, scores []yearScore, weights []float64) {
	var (
		totalAlarms int
		falseAlarms int
		adds        = make([]Value, len(scores))
		aatqs       = make([]Value, len(scores))
		fatqs       = make([]Value, len(scores))
	)

	for i, ys := range scores {
		totalAlarms += ys.alarms
		falseAlarms += ys.falseAlarms
		adds[i] = ys.add
		aatqs[i] = ys.aatq
		fatqs[i] = ys.fatq
	}

	// A cell that never alarms has a false alarm rate of zero, not missing.
	cell.FAR = someValue(0)
	if totalAlarms > 0 {
		cell.FAR = someValue(float64(falseAlarms) / float64(totalAlarms))
	}

	cell.ADD = meanOfValid(adds)
	cell.AATQ = meanOfValid(aatqs)
	cell.FATQ = meanOfValid(fatqs)
	cell.WAATQ = weightedMeanOfValid(aatqs, weights)
	cell.WFATQ = weightedMeanOfValid(fatqs, weights)
}

// designMatrix builds the per-lag logistic design: an intercept, the
// absenteeism signal lagged 0..lag days within the year (zero-padded at the
// season start), a sine/cosine pair of the calendar day over a 365.25-day
// period, and fixed-effect dummies for every year after the first.
// The outcome is 1 when at least one case was reported that day.
func designMatrix(ds *signal.Dataset, years []int, lag int) (*mat.Dense, []float64) {
	var (
		rows    = len(ds.Records)
		columns = 1 + (lag + 1) + 2 + (len(years) - 1)
		x       = mat.NewDense(rows, columns, nil)
		y       = make([]float64, rows)
	)

	// Per-year absenteeism series for lag lookups.
	series := make(map[int][]float64, len(years))
	for i := range ds.Records {
		rec := &ds.Records[i]
		series[rec.Year] = append(series[rec.Year], rec.AbsenteeismProportion)
	}

	yearColumn := make(map[int]int, len(years))
	for i, year := range years[1:] {
		yearColumn[year] = 1 + (lag + 1) + 2 + i
	}

	for i := range ds.Records {
		rec := &ds.Records[i]

		x.Set(i, 0, 1)

		for k := 0; k <= lag; k++ {
			value := 0.0
			if day := rec.Day - k; day >= 0 {
				value = series[rec.Year][day]
			}

			x.Set(i, 1+k, value)
		}

		angle := 2 * math.Pi * rec.DayOfYear / signal.DaysPerYear
		x.Set(i, 1+lag+1, math.Sin(angle))
		x.Set(i, 1+lag+2, math.Cos(angle))

		if column, ok := yearColumn[rec.Year]; ok {
			x.Set(i, column, 1)
		}

		if rec.TrueCaseCount > 0 {
			y[i] = 1
		}
	}

	return x, y
}
