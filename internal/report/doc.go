// Package report aggregates the violations table into chart-ready counts
// and renders the two standard bar charts: violations per issue month in
// calendar order, and the most frequent vehicle makes in descending
// order. The counts behind each chart are also exported as CSV so the
// numbers can be checked without reading pixels.
package report
