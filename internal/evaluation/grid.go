package evaluation

// CellKey identifies one (lag, threshold) grid cell.
type CellKey struct {
	// Lag is the number of trailing absenteeism days used as predictors.
	Lag int
	// Threshold is the predicted-probability alarm cutoff.
	Threshold float64
}

// Cell holds one grid cell's aggregated scores and alarm timelines.
// A cell whose fit failed keeps every score missing and records the cause.
type Cell struct {
	// Key identifies the cell.
	Key CellKey
	// Fitted is false when the regression fit failed for this cell.
	Fitted bool
	// FitErr is the fit failure cause, nil for fitted cells.
	FitErr error
	// FAR is the false alarm rate; 0 when the cell raised no alarms.
	FAR Value
	// ADD is the mean added detection delay over years with an in-window alarm.
	ADD Value
	// AATQ is the mean alert time quality over all alarms.
	AATQ Value
	// FATQ is the mean first-alarm time quality.
	FATQ Value
	// WAATQ is the year-weighted AATQ.
	WAATQ Value
	// WFATQ is the year-weighted FATQ.
	WFATQ Value
	// AlarmDays maps each year to the ordered days alarms were raised on.
	AlarmDays map[int][]int
}

// Score returns the requested metric of the cell.
func (c *Cell) Score(m Metric) Value {
	switch m {
	case MetricFAR:
		return c.FAR
	case MetricADD:
		return c.ADD
	case MetricAATQ:
		return c.AATQ
	case MetricFATQ:
		return c.FATQ
	case MetricWAATQ:
		return c.WAATQ
	case MetricWFATQ:
		return c.WFATQ
	default:
		return Value{}
	}
}

// Result is the full evaluation output: the metric grid in stable
// (lag, threshold) order and the per-metric best models.
type Result struct {
	// Grid holds every evaluated cell ordered by lag, then threshold.
	Grid []Cell
	// BestModels maps each metric to the cell optimizing it.
	// Metrics with no defined score in any cell are absent.
	BestModels map[Metric]CellKey
}

// Cell returns the grid cell with the given key, or nil.
func (r *Result) Cell(lag int, threshold float64) *Cell {
	for i := range r.Grid {
		if r.Grid[i].Key.Lag == lag && r.Grid[i].Key.Threshold == threshold {
			return &r.Grid[i]
		}
	}

	return nil
}

// FailedCells counts the cells whose fit failed.
func (r *Result) FailedCells() int {
	failed := 0

	for i := range r.Grid {
		if !r.Grid[i].Fitted {
			failed++
		}
	}

	return failed
}

// bestModels selects the optimizing cell per metric. The grid is scanned in
// its stable (lag, threshold) order and only strict improvements replace the
// incumbent, so ties resolve to the smaller lag, then the smaller threshold.
func bestModels(grid []Cell) map[Metric]CellKey {
	best := make(map[Metric]CellKey, len(Metrics()))

	for _, metric := range Metrics() {
		var (
			incumbent CellKey
			bestScore float64
			found     bool
		)

		for i := range grid {
			v := grid[i].Score(metric)
			if !v.Valid {
				continue
			}

			improves := !found ||
				(metric.LowerIsBetter() && v.Float64 < bestScore) ||
				(!metric.LowerIsBetter() && v.Float64 > bestScore)

			if improves {
				incumbent = grid[i].Key
				bestScore = v.Float64
				found = true
			}
		}

		if found {
			best[metric] = incumbent
		}
	}

	return best
}
