// Package exporter provides CSV export functionality for pipeline
// report tables.
//
// CSVWriter resolves relative paths against a base directory and writes
// with optional UTF-8 BOM for Excel compatibility. StreamWriter covers
// outputs produced row by row, such as scored predictions.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("reports")
//	err := writer.WriteSimpleCSV("violations_by_month.csv",
//		[]string{"Issue Month", "Violations"},
//		records)
package exporter
