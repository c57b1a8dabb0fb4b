package evaluation

import (
	"math"

	"github.com/oshokin/absentee-alarm/internal/signal"
)

// Metric names one of the six grid scores.
type Metric string

// The six alert-timing metrics computed per grid cell.
const (
	// MetricFAR is the false alarm rate: alarms outside the true window.
	MetricFAR Metric = "FAR"
	// MetricADD is the added days delayed past the optimal detection day.
	MetricADD Metric = "ADD"
	// MetricAATQ is the average alert time quality over all alarms.
	MetricAATQ Metric = "AATQ"
	// MetricFATQ is the alert time quality of the first alarm.
	MetricFATQ Metric = "FATQ"
	// MetricWAATQ is the year-weighted average alert time quality.
	MetricWAATQ Metric = "WAATQ"
	// MetricWFATQ is the year-weighted first-alarm time quality.
	MetricWFATQ Metric = "WFATQ"
)

// Metrics returns the six metrics in canonical order.
func Metrics() []Metric {
	return []Metric{MetricFAR, MetricADD, MetricAATQ, MetricFATQ, MetricWAATQ, MetricWFATQ}
}

// LowerIsBetter reports the optimization direction for the metric.
func (m Metric) LowerIsBetter() bool {
	return m == MetricFAR || m == MetricADD
}

// Value is a score that may be missing. A missing score stays missing in
// every output so consumers can distinguish "bad detector" from "bad fit".
type Value struct {
	// Float64 is the score when Valid.
	Float64 float64
	// Valid is false when the score is undefined.
	Valid bool
}

// someValue wraps a defined score.
func someValue(v float64) Value {
	return Value{Float64: v, Valid: true}
}

// ScoreCurve is the alert-time-quality decay policy. The curve peaks at 1
// on the window's optimal day and decays exponentially on each side, with
// independent early and late rates; the exact shape is a policy choice,
// so both rates are configuration.
type ScoreCurve struct {
	// EarlyDecay is the per-day decay rate for alarms before the optimal day.
	EarlyDecay float64 `yaml:"early_decay"`
	// LateDecay is the per-day decay rate for alarms after the optimal day.
	LateDecay float64 `yaml:"late_decay"`
}

// Score rates an alarm raised on day relative to the optimal day.
func (c ScoreCurve) Score(day, optimalDay int) float64 {
	distance := float64(day - optimalDay)
	if distance < 0 {
		return math.Exp(distance * c.EarlyDecay)
	}

	return math.Exp(-distance * c.LateDecay)
}

// yearScore aggregates one season's alarms against its true window.
type yearScore struct {
	alarms      int
	falseAlarms int
	add         Value
	fatq        Value
	aatq        Value
}

// scoreYear scores the season's ordered alarm days. Seasons without a valid
// window leave the timing scores missing; their alarms still count as false.
func scoreYear(alarmDays []int, w signal.Window, curve ScoreCurve) yearScore {
	ys := yearScore{alarms: len(alarmDays)}

	firstInWindow := -1
	sum := 0.0

	for _, day := range alarmDays {
		if w.Contains(day) {
			if firstInWindow < 0 {
				firstInWindow = day
			}
		} else {
			ys.falseAlarms++
		}

		if w.Valid {
			sum += curve.Score(day, w.OptimalDay())
		}
	}

	if !w.Valid || len(alarmDays) == 0 {
		return ys
	}

	ys.aatq = someValue(sum / float64(len(alarmDays)))
	ys.fatq = someValue(curve.Score(alarmDays[0], w.OptimalDay()))

	if firstInWindow >= 0 {
		ys.add = someValue(float64(firstInWindow - w.OptimalDay()))
	}

	return ys
}

// meanOfValid averages the defined entries, or reports missing.
func meanOfValid(values []Value) Value {
	sum := 0.0
	count := 0

	for _, v := range values {
		if v.Valid {
			sum += v.Float64
			count++
		}
	}

	if count == 0 {
		return Value{}
	}

	return someValue(sum / float64(count))
}

// weightedMeanOfValid averages the defined entries under the given weights,
// renormalizing over the defined subset, or reports missing.
func weightedMeanOfValid(values []Value, weights []float64) Value {
	sum := 0.0
	totalWeight := 0.0

	for i, v := range values {
		if v.Valid {
			sum += weights[i] * v.Float64
			totalWeight += weights[i]
		}
	}

	if totalWeight == 0 {
		return Value{}
	}

	return someValue(sum / totalWeight)
}
