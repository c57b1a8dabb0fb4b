// Package runner orchestrates the end-to-end evaluation pipeline for the
// absentee-alarm binary: scenario loading, epidemic simulation, population
// construction, signal compilation, grid evaluation, and CSV export.
package runner
