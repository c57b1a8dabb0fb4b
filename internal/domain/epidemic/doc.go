// Package epidemic contains the core domain types for simulated outbreak data.
//
// It defines Run (one season's daily compartment trajectories plus the
// reported-case series) and Dataset (the ordered multi-year collection),
// with conservation checks and Clone helpers to avoid leaking internal
// references.
package epidemic
