package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"pvcli/internal/dataset"
	apperrors "pvcli/internal/errors"
	"pvcli/pkg/contracts/domain"
)

// MonthCount is one bar of the monthly violations chart
type MonthCount struct {
	Month int
	Count int
}

// MakeCount is one bar of the top vehicle makes chart
type MakeCount struct {
	Make  string
	Count int
}

// CountByMonth tallies rows per issue month, returned in calendar order
// 1 to 12. Months with no rows are omitted. The table must already carry
// the derived issue month column.
func CountByMonth(df dataframe.DataFrame) ([]MonthCount, error) {
	if err := dataset.ValidateColumns(df, []string{domain.ColumnIssueMonth}); err != nil {
		return nil, err
	}

	months, err := df.Col(domain.ColumnIssueMonth).Int()
	if err != nil {
		return nil, apperrors.NewDataQualityError(
			fmt.Sprintf("column %q is not integer valued", domain.ColumnIssueMonth), err)
	}
	if len(months) == 0 {
		return nil, apperrors.NewDataQualityError("no rows to count by month", nil)
	}

	counts := make(map[int]int)
	for i, m := range months {
		if m < 1 || m > 12 {
			return nil, apperrors.NewDataQualityError(
				fmt.Sprintf("issue month %d at row %d outside [1,12]", m, i), nil)
		}
		counts[m]++
	}

	out := make([]MonthCount, 0, len(counts))
	for m := 1; m <= 12; m++ {
		if c, ok := counts[m]; ok {
			out = append(out, MonthCount{Month: m, Count: c})
		}
	}
	return out, nil
}

// TopMakes tallies rows per value of the given make column and returns
// the limit most frequent, ordered by descending count with
// lexicographic tie-breaks. Missing cells are not a make; a column with
// nothing but missing cells is a data quality failure.
func TopMakes(df dataframe.DataFrame, column string, limit int) ([]MakeCount, error) {
	if limit < 1 {
		return nil, apperrors.NewInternalError(fmt.Sprintf("top makes limit %d below 1", limit), nil)
	}
	if err := dataset.ValidateColumns(df, []string{column}); err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, v := range df.Col(column).Records() {
		if dataset.IsMissing(v) {
			continue
		}
		counts[strings.TrimSpace(v)]++
	}
	if len(counts) == 0 {
		return nil, apperrors.NewDataQualityError(
			fmt.Sprintf("column %q has no non-missing values to rank", column), nil)
	}

	out := make([]MakeCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, MakeCount{Make: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Make < out[j].Make
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
