// Package signal compiles epidemic trajectories and a synthetic population
// into the daily school-absenteeism observable.
//
// Compile produces one Record per (day, school year) with the absenteeism
// proportion, the true reported-case count, and membership in the season's
// ground-truth alarm window. Windows are derived from the epidemic run
// alone so later detection models cannot influence them.
package signal
