// Package pipeline sequences a violation analysis run: load the table,
// prepare features, render the monthly and top-make reports, then fit
// and evaluate the precinct classifier.
//
// # Steps and State
//
// Each stage is a Step with a Validate phase (can it run against the
// current State) and an Execute phase. Steps read the current table from
// the shared State and replace it with their output; tables are never
// mutated in place. The Runner executes steps in order and stops at the
// first failure. Nothing is retried: every stage is deterministic given
// its input, so a failed run is rerun after the input or configuration
// is fixed.
//
// # Progress
//
// The State tracks one StepState per step (pending, running, completed,
// failed, with timings) so a caller can report where a run stopped and
// how long each stage took.
package pipeline
