package domain

// Canonical header names for the columns a violations table must carry.
// These follow the NYC citation export headers; tables with different
// headers are mapped onto them through the columns section of the
// configuration.
const (
	// ColumnPrecinct is the enforcement precinct that issued the citation.
	// It is the prediction target.
	ColumnPrecinct = "Violation Precinct"

	// ColumnViolationCode is the numeric code of the cited violation
	ColumnViolationCode = "Violation Code"

	// ColumnBodyType is the vehicle body type (SEDAN, SUV, ...)
	ColumnBodyType = "Vehicle Body Type"

	// ColumnMake is the vehicle manufacturer (FORD, HONDA, ...)
	ColumnMake = "Vehicle Make"

	// ColumnVehicleYear is the vehicle model year. It is the only numeric
	// feature column and the only one that may contain missing entries.
	ColumnVehicleYear = "Vehicle Year"

	// ColumnIssueDate is the citation issue date, parseable as a calendar
	// date (e.g. "06/14/2017" or "2017-06-14").
	ColumnIssueDate = "Issue Date"
)

// Columns appended by the preparation stage.
const (
	// ColumnIssueMonth is the calendar month (1-12) of the issue date
	ColumnIssueMonth = "Issue Month"

	// ColumnIssueYear is the calendar year of the issue date
	ColumnIssueYear = "Issue Year"
)

// RequiredColumns returns the canonical names of the six columns every
// input table must contain, in a stable order.
func RequiredColumns() []string {
	return []string{
		ColumnPrecinct,
		ColumnViolationCode,
		ColumnBodyType,
		ColumnMake,
		ColumnVehicleYear,
		ColumnIssueDate,
	}
}
