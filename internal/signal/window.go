package signal

import "github.com/oshokin/absentee-alarm/internal/domain/epidemic"

// Window is the contiguous ground-truth day range for one season during
// which an alarm counts as correctly timed.
type Window struct {
	// Year is the season the window belongs to.
	Year int
	// Start is the first in-window day (the optimal detection day).
	Start int
	// End is the last in-window day.
	End int
	// Valid is false when the season never produced a window
	// (too few reported cases, or no outbreak at all).
	Valid bool
}

// Contains reports whether the day falls inside a valid window.
func (w Window) Contains(day int) bool {
	return w.Valid && day >= w.Start && day <= w.End
}

// OptimalDay is the earliest ground-truth day: the best day an alarm can fire.
func (w Window) OptimalDay() int {
	return w.Start
}

// windowForRun derives the true alarm window deterministically from the run:
// from the first day cumulative reported cases reach startCases through the
// last day anyone is still infectious. The derivation depends only on the
// run itself, never on a detection model evaluated against it.
func windowForRun(run *epidemic.Run, startCases int) Window {
	w := Window{Year: run.Year}

	start := -1

	for day, total := range run.CumulativeReported() {
		if total >= startCases {
			start = day

			break
		}
	}

	if start < 0 {
		return w
	}

	end := -1

	for day := run.Days() - 1; day >= 0; day-- {
		if run.Infectious[day] > 0 {
			end = day

			break
		}
	}

	if end < start {
		return w
	}

	w.Start = start
	w.End = end
	w.Valid = true

	return w
}
