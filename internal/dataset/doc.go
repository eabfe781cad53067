// Package dataset loads parking-violation tables into dataframes.
//
// # Data Flow
//
// A table enters the pipeline exactly once, through Load:
//
//	CSV/XLSX file -> string-typed dataframe -> column validation -> profile
//
// Every column is loaded as strings on purpose: the vehicle-year column
// may contain missing entries that a numeric parse would destroy, and the
// transformers in internal/features own all type interpretation.
//
// # Error Handling
//
// A missing or unreadable file, or an absent required column, is a
// CONFIGURATION error; a table or sheet with no rows is a DATA_QUALITY
// error. Both fail the run immediately.
package dataset
