// Package regression provides the pure logistic-regression fit used by the
// alarm grid search.
//
// Fit runs iteratively reweighted least squares over a caller-supplied
// design matrix; grouping structure (such as per-year effects) enters as
// ordinary columns. All state is local to the call, so per-cell fits run
// safely in parallel, and every failure mode surfaces as ErrFitFailure.
package regression
