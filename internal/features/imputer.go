package features

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"pvcli/internal/dataset"
	apperrors "pvcli/internal/errors"
)

// MeanImputer fills missing entries of one numeric column with the
// arithmetic mean of its non-missing entries. The mean is computed once,
// at Fit time; Transform never recomputes it.
type MeanImputer struct {
	column string
	mean   float64
	fitted bool
}

// NewMeanImputer creates an imputer for the given column
func NewMeanImputer(column string) *MeanImputer {
	return &MeanImputer{column: column}
}

// Fit computes the column mean over non-missing entries
func (m *MeanImputer) Fit(df dataframe.DataFrame) error {
	if err := dataset.ValidateColumns(df, []string{m.column}); err != nil {
		return err
	}

	var nums []float64
	for i, v := range df.Col(m.column).Records() {
		if dataset.IsMissing(v) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return apperrors.NewDataQualityError(
				fmt.Sprintf("column %q has non-numeric value %q at row %d", m.column, v, i), err)
		}
		nums = append(nums, f)
	}

	if len(nums) == 0 {
		return apperrors.NewDataQualityError(
			fmt.Sprintf("column %q has no non-missing values to impute from", m.column), nil)
	}

	m.mean = stat.Mean(nums, nil)
	m.fitted = true
	return nil
}

// Transform returns a new table with every missing entry of the column
// replaced by the fitted mean. The column comes back as a float series;
// the input table is not modified.
func (m *MeanImputer) Transform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if !m.fitted {
		return dataframe.DataFrame{}, apperrors.NewInternalError("imputer not fitted", nil)
	}
	if err := dataset.ValidateColumns(df, []string{m.column}); err != nil {
		return dataframe.DataFrame{}, err
	}

	records := df.Col(m.column).Records()
	values := make([]float64, len(records))
	for i, v := range records {
		if dataset.IsMissing(v) {
			values[i] = m.mean
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return dataframe.DataFrame{}, apperrors.NewDataQualityError(
				fmt.Sprintf("column %q has non-numeric value %q at row %d", m.column, v, i), err)
		}
		values[i] = f
	}

	out := df.Mutate(series.New(values, series.Float, m.column))
	if out.Error() != nil {
		return dataframe.DataFrame{}, apperrors.NewInternalError(
			fmt.Sprintf("failed to replace column %q", m.column), out.Error())
	}
	return out, nil
}

// FitTransform fits the imputer and transforms the same table
func (m *MeanImputer) FitTransform(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := m.Fit(df); err != nil {
		return dataframe.DataFrame{}, err
	}
	return m.Transform(df)
}

// FillValue returns the fitted mean
func (m *MeanImputer) FillValue() float64 {
	return m.mean
}

// Column returns the column this imputer operates on
func (m *MeanImputer) Column() string {
	return m.column
}

// SetFillValue restores a previously fitted mean, for scoring with a
// persisted schema.
func (m *MeanImputer) SetFillValue(mean float64) {
	m.mean = mean
	m.fitted = true
}
