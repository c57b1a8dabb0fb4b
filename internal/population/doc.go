// Package population models the synthetic school catchment population.
//
// A Table holds one row per individual per school-year cohort (household,
// optional school, catchment, age category). Tables come either from the
// external demographic generator via CSV or from the built-in synthetic
// generator; once built they are read-only.
package population
