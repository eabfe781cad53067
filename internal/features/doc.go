// Package features implements the preparation transforms that turn a raw
// violations table into model inputs: mean imputation of the vehicle
// year, standard scaling, calendar derivation from the issue date, and
// one-hot encoding of the categorical columns.
//
// # Fit and Transform
//
// Every transformer separates Fit (learn statistics or mappings from a
// table) from Transform (apply them). Transform never updates state, so
// applying the same fitted transformer twice yields identical output.
// Transforms return new tables and leave their input untouched.
//
// # Persisted Schema
//
// The Schema artifact pins the one-hot mapping, the target label order,
// the imputer fill value, and the scaler statistics. Scoring restores
// transformers from the schema instead of refitting, and any category or
// label outside the persisted mapping fails with a schema mismatch.
package features
