package features

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"pvcli/internal/dataset"
	apperrors "pvcli/internal/errors"
	"pvcli/pkg/contracts/domain"
)

// dateLayouts are the issue date formats accepted by DeriveCalendar, in
// the order they are tried. Violation exports use MM/DD/YYYY; ISO dates
// show up in hand-built fixtures and re-exports.
var dateLayouts = []string{
	"01/02/2006",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// DeriveCalendar parses the date column and returns a new table with two
// additional integer columns: the issue month (1 to 12) and the issue
// year. Every row must carry a parseable date; the first failure aborts
// the derivation.
func DeriveCalendar(df dataframe.DataFrame, dateColumn string) (dataframe.DataFrame, error) {
	if err := dataset.ValidateColumns(df, []string{dateColumn}); err != nil {
		return dataframe.DataFrame{}, err
	}

	records := df.Col(dateColumn).Records()
	months := make([]int, len(records))
	years := make([]int, len(records))

	for i, raw := range records {
		t, err := parseIssueDate(raw)
		if err != nil {
			return dataframe.DataFrame{}, apperrors.NewDataQualityError(
				fmt.Sprintf("column %q has unparseable date %q at row %d", dateColumn, raw, i), err).
				WithContext("row", i).
				WithContext("value", raw)
		}
		months[i] = int(t.Month())
		years[i] = t.Year()
	}

	out := df.
		Mutate(series.New(months, series.Int, domain.ColumnIssueMonth)).
		Mutate(series.New(years, series.Int, domain.ColumnIssueYear))
	if out.Error() != nil {
		return dataframe.DataFrame{}, apperrors.NewInternalError("failed to append calendar columns", out.Error())
	}
	return out, nil
}

// parseIssueDate tries each accepted layout in turn
func parseIssueDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
