// Package evaluation runs the (lag × threshold) alarm grid search.
//
// Every cell fits its own logistic detection model over the compiled
// absenteeism dataset, raises alarms where the predicted outbreak
// probability clears the threshold, and scores them against the per-year
// true alarm windows with the six alert-time-quality metrics (FAR, ADD,
// AATQ, FATQ, WAATQ, WFATQ). Cells evaluate concurrently but aggregate in
// stable (lag, threshold) order, so best-model selection and its
// tie-breaking are reproducible. A regression failure marks only its own
// cell missing.
package evaluation
