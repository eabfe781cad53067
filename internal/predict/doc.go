// Package predict implements the supervised stage: encode the prepared
// table against a persisted schema, split it with the split seed, fit
// the precinct ensemble with the model seed, and evaluate on the
// held-out rows.
//
// The two seeds are independent on purpose. Rerunning with the same
// split seed reproduces row membership exactly; rerunning with the same
// model seed reproduces the fitted ensemble exactly; neither influences
// the other.
//
// A table with a single target class is a boundary, not an error: the
// ensemble fit is skipped and the run reports trivially perfect metrics
// flagged SingleClass.
package predict
