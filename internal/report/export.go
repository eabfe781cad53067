package report

import (
	"strconv"

	"pvcli/internal/exporter"
)

// Report artifact file names, relative to the reports directory.
const (
	MonthChartFileName  = "violations_by_month.png"
	MakesChartFileName  = "top_vehicle_makes.png"
	MonthCountsFileName = "violations_by_month.csv"
	MakeCountsFileName  = "top_vehicle_makes.csv"
)

// ExportMonthCounts writes the monthly tallies behind the month chart
func ExportMonthCounts(w *exporter.CSVWriter, counts []MonthCount, filename string) error {
	records := make([][]string, len(counts))
	for i, mc := range counts {
		records[i] = []string{strconv.Itoa(mc.Month), strconv.Itoa(mc.Count)}
	}
	return w.WriteSimpleCSV(filename, []string{"Issue Month", "Violations"}, records)
}

// ExportMakeCounts writes the tallies behind the top makes chart
func ExportMakeCounts(w *exporter.CSVWriter, counts []MakeCount, filename string) error {
	records := make([][]string, len(counts))
	for i, mc := range counts {
		records[i] = []string{mc.Make, strconv.Itoa(mc.Count)}
	}
	return w.WriteSimpleCSV(filename, []string{"Vehicle Make", "Violations"}, records)
}
